// Package importsnapshot imports a race snapshot file into the database.
package importsnapshot

import (
	"github.com/spf13/cobra"

	"github.com/pitwall/strategy-engine-go/log"
	"github.com/pitwall/strategy-engine-go/pkg/cmd/util"
	"github.com/pitwall/strategy-engine-go/pkg/config"
	"github.com/pitwall/strategy-engine-go/pkg/db/postgres"
	"github.com/pitwall/strategy-engine-go/pkg/ingest"
	sessionRepo "github.com/pitwall/strategy-engine-go/pkg/repository/session"
)

func NewImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <snapshot-file>",
		Short: "imports a race snapshot (json) into the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return importSnapshot(cmd, args[0])
		},
	}
	return cmd
}

func importSnapshot(cmd *cobra.Command, file string) error {
	util.SetupLogger()
	session, err := ingest.LoadFile(file)
	if err != nil {
		return err
	}
	pool, err := postgres.InitWithURL(config.DB,
		postgres.WithTracer(util.SQLLogger()))
	if err != nil {
		return err
	}
	defer pool.Close()

	id, err := sessionRepo.Save(cmd.Context(), pool, session)
	if err != nil {
		return err
	}
	log.Info("snapshot imported",
		log.Int("id", id),
		log.Int("year", session.Year),
		log.String("race", session.Race),
		log.Int("laps", len(session.Laps)))
	return nil
}
