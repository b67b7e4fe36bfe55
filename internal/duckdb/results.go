package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/pipeline"
)

// WriteRecords batch-inserts per-event records and their protein edits
// using the Appender API.
func (s *Store) WriteRecords(records []*pipeline.Record) error {
	if len(records) == 0 {
		return nil
	}

	if err := s.appendEvents(records); err != nil {
		return err
	}
	return s.appendEdits(records)
}

func (s *Store) appendEvents(records []*pipeline.Record) error {
	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "event_results")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, rec := range records {
		g := rec.Geometry
		if err := appender.AppendRow(
			rec.EventID, rec.ModuleID, rec.GeneID, rec.GeneName,
			g.Strand.String(), g.EventSize, string(rec.Group),
			rec.Distal.FrameShift,
			rec.Distal.StopCodon || rec.Proximal.StopCodon,
			g.E1D.Start, g.E1D.End,
			g.E1P.Start, g.E1P.End,
			g.E2.Start, g.E2.End,
			int32(rec.Match.Removed), rec.Match.Overlap,
			rec.Distal.Seq, rec.Proximal.Seq,
		); err != nil {
			return fmt.Errorf("append event result: %w", err)
		}
	}

	return appender.Flush()
}

func (s *Store) appendEdits(records []*pipeline.Record) error {
	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "protein_edits")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, rec := range records {
		for _, in := range rec.Integrations {
			a := in.Alignment
			if err := appender.AppendRow(
				in.EventID, string(in.Variant), in.IsoformID, in.NewID,
				int32(a.SubjectStart), int32(a.SubjectEnd),
				int32(a.Matches), int32(a.Mismatches),
				int32(a.Insertions), int32(a.Deletions),
				in.Edited,
			); err != nil {
				return fmt.Errorf("append protein edit: %w", err)
			}
		}
	}

	return appender.Flush()
}
