// Package input_test tests the CSV row source.
package input_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadscope/practicescout/internal/input"
	"github.com/leadscope/practicescout/internal/scout"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rows.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func drain(t *testing.T, src *input.CSVSource) []scout.EntityIdentity {
	t.Helper()
	var rows []scout.EntityIdentity
	for {
		row, err := src.Next()
		if err == io.EOF {
			return rows
		}
		require.NoError(t, err)
		rows = append(rows, row)
	}
}

func TestOpenCSVReadsRows(t *testing.T) {
	path := writeCSV(t, `Name,Physician Name,Address
Lakeside Eye Care,Dr. Jane Roe,"123 Main St, Springfield, IL 62701"
Capital Eye Clinic,,"9 Oak Ave, Springfield, IL 62702"
`)
	src, err := input.OpenCSV(path, 0)
	require.NoError(t, err)
	defer src.Close()

	rows := drain(t, src)
	require.Len(t, rows, 2)
	assert.Equal(t, scout.EntityIdentity{
		Name:          "Lakeside Eye Care",
		PhysicianName: "Dr. Jane Roe",
		Address:       "123 Main St, Springfield, IL 62701",
	}, rows[0])
	assert.Equal(t, "Capital Eye Clinic", rows[1].Name)
	assert.Empty(t, rows[1].PhysicianName)
}

func TestOpenCSVHeaderAliases(t *testing.T) {
	path := writeCSV(t, `BUSINESS NAME,doctor,Location
Lakeside Eye Care,Dr. Roe,"Springfield, IL"
`)
	src, err := input.OpenCSV(path, 0)
	require.NoError(t, err)
	defer src.Close()

	rows := drain(t, src)
	require.Len(t, rows, 1)
	assert.Equal(t, "Lakeside Eye Care", rows[0].Name)
	assert.Equal(t, "Dr. Roe", rows[0].PhysicianName)
	assert.Equal(t, "Springfield, IL", rows[0].Address)
}

func TestOpenCSVMaxRows(t *testing.T) {
	path := writeCSV(t, `name,address
A,"X, IL"
B,"Y, IL"
C,"Z, IL"
`)
	src, err := input.OpenCSV(path, 2)
	require.NoError(t, err)
	defer src.Close()

	rows := drain(t, src)
	assert.Len(t, rows, 2)

	// Drained sources keep returning EOF.
	_, err = src.Next()
	assert.Equal(t, io.EOF, err)
}

func TestOpenCSVMissingRequiredColumns(t *testing.T) {
	path := writeCSV(t, `name,phone
A,555-0100
`)
	_, err := input.OpenCSV(path, 0)
	assert.Error(t, err)
}

func TestOpenCSVMissingFile(t *testing.T) {
	_, err := input.OpenCSV(filepath.Join(t.TempDir(), "nope.csv"), 0)
	assert.Error(t, err)
}

func TestNextToleratesShortRecords(t *testing.T) {
	path := writeCSV(t, `name,physician,address
OnlyName
Full,Dr. Roe,"Springfield, IL"
`)
	src, err := input.OpenCSV(path, 0)
	require.NoError(t, err)
	defer src.Close()

	first, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, "OnlyName", first.Name)
	assert.Empty(t, first.Address)
	assert.False(t, first.Valid())

	second, err := src.Next()
	require.NoError(t, err)
	assert.True(t, second.Valid())
}
