// Package memory_test tests the in-memory result store.
package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadscope/practicescout/internal/scout"
	"github.com/leadscope/practicescout/internal/store/memory"
)

func TestSaveAndGet(t *testing.T) {
	s := memory.NewStore()
	record := scout.ResultRecord{
		Entity:   scout.EntityIdentity{Name: "Lakeside Eye Care", Address: "123 Main St, Springfield, IL"},
		Website:  "https://lakesideeyecare.com",
		Services: []string{"Eye Exams"},
	}

	uri, err := s.Save(context.Background(), record)
	require.NoError(t, err)
	assert.Equal(t, "memory://Lakeside_Eye_Care.json", uri)

	got, ok := s.Get("Lakeside Eye Care")
	require.True(t, ok)
	assert.Equal(t, record, got)
	assert.Equal(t, 1, s.Len())
}

func TestSaveOverwrites(t *testing.T) {
	s := memory.NewStore()
	record := scout.ResultRecord{Entity: scout.EntityIdentity{Name: "Lakeside Eye Care"}}

	_, err := s.Save(context.Background(), record)
	require.NoError(t, err)

	record.Website = "https://lakesideeyecare.com"
	_, err = s.Save(context.Background(), record)
	require.NoError(t, err)

	assert.Equal(t, 1, s.Len())
	got, _ := s.Get("Lakeside Eye Care")
	assert.Equal(t, "https://lakesideeyecare.com", got.Website)
}

func TestSaveRejectsUnnamedEntity(t *testing.T) {
	s := memory.NewStore()
	_, err := s.Save(context.Background(), scout.ResultRecord{})
	assert.Error(t, err)
}
