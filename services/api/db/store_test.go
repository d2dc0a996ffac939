package db

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
)

func TestCellString(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"Afghanistan", "Afghanistan"},
		{[]byte("AF"), "AF"},
		{time.Date(2021, 3, 7, 13, 0, 0, 0, time.UTC), "2021-03-07"},
		{float64(12.5), "12.5"},
		{float32(0.25), "0.25"},
		{int64(1234567), "1234567"},
		{int32(-3), "-3"},
		{int16(7), "7"},
		{pgtype.Numeric{Int: big.NewInt(12345), Exp: -2, Valid: true}, "123.45"},
		{pgtype.Numeric{}, ""},
		{true, "true"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, cellString(c.in), "%#v", c.in)
	}
}

func TestReadTableRejectsUnknownTable(t *testing.T) {
	s := &Store{}
	_, _, err := s.ReadTable(context.Background(), "users; DROP TABLE cases")
	assert.True(t, errors.Is(err, ErrUnknownTable))
}

func TestCreateTableSQL(t *testing.T) {
	got := createTableSQL(pgx.Identifier{Schema, "cases"}, []string{"Date_reported", "New_cases", `odd"name`})
	assert.Equal(t, `CREATE TABLE "dashboard"."cases" ("Date_reported" text, "New_cases" text, "odd""name" text)`, got)
}

func TestTextRow(t *testing.T) {
	assert.Equal(t, []any{"2021-01-01", nil, nil}, textRow([]string{"2021-01-01", ""}, 3))
	assert.Equal(t, []any{"a"}, textRow([]string{"a", "b"}, 1))
}

func TestReplaceTableRejectsUnknownTable(t *testing.T) {
	s := &Store{}
	_, err := s.ReplaceTable(context.Background(), "users", []string{"id"}, nil)
	assert.ErrorIs(t, err, ErrUnknownTable)
}
