package repository

import (
	"context"
	"fmt"
	"time"

	"SigFlow/internal/domain/models"
	drepo "SigFlow/internal/domain/repository"
	pkgch "SigFlow/pkg/clickhouse"
)

// Schema for the audit journal. The journal is observability only: writes are
// best-effort and a failed insert never blocks publish or dispatch.
var JournalSchema = []string{
	"CREATE DATABASE IF NOT EXISTS sigflow",
	`CREATE TABLE IF NOT EXISTS sigflow.signal_journal (
		ts           DateTime64(3),
		stage        String,
		account_id   Int64,
		account_name String,
		symbol       String,
		signal_type  String
	) ENGINE=MergeTree ORDER BY (symbol, ts)`,
}

// ClickHouseJournal records signals passing through the pipeline. It owns
// the underlying client and closes it on Close.
type ClickHouseJournal struct {
	client *pkgch.Client
	table  string
}

func NewClickHouseJournal(client *pkgch.Client, table string) *ClickHouseJournal {
	return &ClickHouseJournal{client: client, table: table}
}

func (j *ClickHouseJournal) Record(ctx context.Context, stage string, msg *models.SignalMessage) error {
	q := fmt.Sprintf(
		"INSERT INTO %s (ts, stage, account_id, account_name, symbol, signal_type) VALUES (?, ?, ?, ?, ?, ?)",
		j.table,
	)
	if _, err := j.client.DB().ExecContext(ctx, q,
		time.Now().UTC(), stage, msg.AccountID, msg.AccountName, msg.Symbol, string(msg.SignalType)); err != nil {
		return fmt.Errorf("journal insert: %w", err)
	}
	return nil
}

func (j *ClickHouseJournal) Close() error {
	return j.client.Close()
}

// NopJournal is used when the journal is disabled in config.
type NopJournal struct{}

func (NopJournal) Record(context.Context, string, *models.SignalMessage) error { return nil }
func (NopJournal) Close() error                                                { return nil }

var (
	_ drepo.SignalJournal = (*ClickHouseJournal)(nil)
	_ drepo.SignalJournal = NopJournal{}
)
