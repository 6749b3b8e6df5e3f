package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProductTableValidate(t *testing.T) {
	require.NoError(t, DefaultProductTable().Validate())
	require.Error(t, ProductTable{}.Validate())
	require.Error(t, ProductTable{{ID: "A", ButtonType: "STAT"}}.Validate())
	require.Error(t, ProductTable{{ID: "A", ButtonType: ButtonBack}, {ID: "A", ButtonType: ButtonID}}.Validate())

	// одинаковая пара (тип, язык) допустима
	require.NoError(t, ProductTable{{ID: "A", ButtonType: ButtonBack}, {ID: "B", ButtonType: ButtonBack}}.Validate())
}
