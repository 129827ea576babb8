package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/ryan-griego/career-chatbot-go/pkg/config"
	"github.com/ryan-griego/career-chatbot-go/pkg/store"
)

var errPersistenceDisabled = errors.New("lead store is disabled (CHATBOT_DB_PATH=none)")

// leadReport is the JSON document printed by -list_leads.
type leadReport struct {
	Contacts         []store.Contact         `json:"contacts"`
	UnknownQuestions []store.UnknownQuestion `json:"unknown_questions"`
}

// listLeads prints the most recent captured leads as JSON.
func listLeads(ctx context.Context, settings config.Settings, limit int, out io.Writer) error {
	if !settings.PersistenceEnabled() {
		return errPersistenceDisabled
	}

	s, err := store.Open(settings.DBPath)
	if err != nil {
		return fmt.Errorf("open lead store: %w", err)
	}
	defer s.Close()

	contacts, err := s.ListContacts(ctx, limit)
	if err != nil {
		return err
	}
	questions, err := s.ListUnknownQuestions(ctx, limit)
	if err != nil {
		return err
	}

	report := leadReport{
		Contacts:         contacts,
		UnknownQuestions: questions,
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
