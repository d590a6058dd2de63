package http

import (
	"encoding/json"
	"net/http"
)

const (
	codeNoError            = "no_error"
	codeTryAgain           = "try_again"
	codePokemonNonexistent = "pokemon_nonexistent"
	codeExpensive          = "expensive"
	codeOutOfStock         = "out_of_stock"
	codeDbStock            = "db_stock"
	codePurchaseFailed     = "purchase_failed"
	codeMethodNotAllowed   = "method_not_allowed"
	codeNotFound           = "not_found"
	codeForbidden          = "forbidden"
)

const msgTryAgain = "oops, try again later"

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error:   code,
		Message: msg,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"purchase_failed","message":"internal error"}`))
		return
	}
	_, _ = w.Write(payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
