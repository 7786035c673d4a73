package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrazilianPhone(t *testing.T) {
	cases := map[string]bool{
		"(21) 98888-7777": true,
		"2133334444":      true,
		"11999999999":     true,
		"99999999999":     false,
		"0999998888":      false,
		"98888-7777":      false,
		"219888877770":    false,
	}
	for phone, want := range cases {
		assert.Equal(t, want, IsBrazilianPhone(phone), phone)
	}
}

func TestCPF(t *testing.T) {
	assert.True(t, IsCPF("529.982.247-25"))
	assert.True(t, IsCPF("52998224725"))
	assert.False(t, IsCPF("529.982.247-24"))
	assert.False(t, IsCPF("111.111.111-11"))
	assert.False(t, IsCPF("123"))
}

func TestCNPJ(t *testing.T) {
	assert.True(t, IsCNPJ("11.222.333/0001-81"))
	assert.False(t, IsCNPJ("11.222.333/0001-82"))
	assert.False(t, IsCNPJ("00000000000000"))
	assert.True(t, IsDocument("11222333000181"))
	assert.True(t, IsDocument("52998224725"))
	assert.False(t, IsDocument("1234567"))
}

func TestPersonName(t *testing.T) {
	assert.True(t, IsPersonName("José"))
	assert.False(t, IsPersonName("Jo"))
	assert.False(t, IsPersonName("12345"))
}

type leadForm struct {
	Nome     string `json:"nome" validate:"required,person_name"`
	Email    string `json:"email" validate:"required,email"`
	Telefone string `json:"telefone" validate:"required,br_phone"`
	CNPJ     string `json:"cnpj" validate:"omitempty,cnpj"`
}

func TestStructUsesJSONNames(t *testing.T) {
	err := Struct(leadForm{Nome: "1", Email: "x", Telefone: "123", CNPJ: "11.222.333/0001-82"})
	require.Error(t, err)

	fields := FieldErrors(err)
	assert.Equal(t, "nome inválido", fields["nome"])
	assert.Equal(t, "e-mail inválido", fields["email"])
	assert.Contains(t, fields["telefone"], "telefone inválido")
	assert.Equal(t, "CNPJ inválido", fields["cnpj"])
	assert.Equal(t, "nome: nome inválido", FirstError(err))

	assert.NoError(t, Struct(leadForm{Nome: "Maria", Email: "maria@example.com", Telefone: "(21) 98888-7777"}))
}
