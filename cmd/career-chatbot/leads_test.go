package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryan-griego/career-chatbot-go/pkg/config"
	"github.com/ryan-griego/career-chatbot-go/pkg/store"
)

func TestListLeadsPrintsStoredLeads(t *testing.T) {
	settings := config.DefaultSettings()
	settings.DBPath = filepath.Join(t.TempDir(), "leads.db")

	s, err := store.Open(settings.DBPath)
	require.NoError(t, err)
	_, err = s.SaveContact(context.Background(), store.Contact{Email: "jane@example.com", Name: "Jane"})
	require.NoError(t, err)
	_, err = s.SaveUnknownQuestion(context.Background(), store.UnknownQuestion{Question: "Favorite editor?"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	var out bytes.Buffer
	require.NoError(t, listLeads(context.Background(), settings, 10, &out))

	var report leadReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	require.Len(t, report.Contacts, 1)
	assert.Equal(t, "jane@example.com", report.Contacts[0].Email)
	require.Len(t, report.UnknownQuestions, 1)
	assert.Equal(t, "Favorite editor?", report.UnknownQuestions[0].Question)
}

func TestListLeadsEmptyStorePrintsEmptyLists(t *testing.T) {
	settings := config.DefaultSettings()
	settings.DBPath = filepath.Join(t.TempDir(), "leads.db")

	var out bytes.Buffer
	require.NoError(t, listLeads(context.Background(), settings, 0, &out))
	assert.JSONEq(t, `{"contacts":[],"unknown_questions":[]}`, out.String())
}

func TestListLeadsDisabled(t *testing.T) {
	settings := config.DefaultSettings()
	settings.DBPath = config.PersistenceDisabled

	err := listLeads(context.Background(), settings, 10, &bytes.Buffer{})
	assert.ErrorIs(t, err, errPersistenceDisabled)
}
