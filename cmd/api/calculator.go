package main

import (
	"errors"
	"net/http"

	"github.com/humanosaude/portal/internal/calculator"
)

type calculatorResponse struct {
	Resultados []calculator.Quote `json:"resultados"`
}

// @Summary		Price health plans
// @Description	Sums the ANS band price of every beneficiary per plan, cheapest first.
// @Tags			Calculator
// @Accept			json
// @Produce		json
// @Param			body	body		object{tipo_contratacao:string,acomodacao:string,idades:[]int,cnpj:string}	true	"Quote request"
// @Success		200		{object}	calculatorResponse
// @Failure		400		{object}	response.ErrorResponse
// @Router			/calculadora [post]
func (app *application) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		TipoContratacao string `json:"tipo_contratacao"`
		Acomodacao      string `json:"acomodacao"`
		Idades          []int  `json:"idades"`
		CNPJ            string `json:"cnpj"`
	}
	if err := readJSON(w, r, &input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	req := calculator.Request{
		TipoContratacao: input.TipoContratacao,
		Acomodacao:      input.Acomodacao,
		Idades:          input.Idades,
		CNPJ:            input.CNPJ,
	}
	if err := req.Normalize(); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := app.store.Plans.ListPrices(r.Context(), req.TipoContratacao, req.Acomodacao)
	if err != nil {
		app.serverError(w, r, "Erro ao carregar tabela de preços", err)
		return
	}

	quotes, err := calculator.Price(calculator.PlansFromPrices(rows), req.Idades)
	if err != nil {
		if errors.Is(err, calculator.ErrNoPlanMatched) {
			writeJSON(w, http.StatusOK, &calculatorResponse{Resultados: []calculator.Quote{}})
			return
		}
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, &calculatorResponse{Resultados: quotes})
}
