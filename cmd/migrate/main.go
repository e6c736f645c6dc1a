package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/pricile448/amcb-sub000/database"
	"github.com/pricile448/amcb-sub000/migrate"
)

func main() {
	batchSize := flag.Int("batch-size", 50, "documents processed between pauses")
	pause := flag.Duration("pause", time.Second, "delay between batches")
	dryRun := flag.Bool("dry-run", false, "compute patches without writing anything")
	backup := flag.Bool("backup", false, "snapshot user metadata before patching")
	skipExisting := flag.Bool("skip-existing", false, "skip deep merges for documents with no missing top-level field")
	flag.Parse()

	ctx := context.Background()

	client, err := database.ConnectToMongoDB(ctx)
	if err != nil {
		log.Fatal("MongoDB connection failed: ", err)
	}
	defer database.CloseMongoDBConnection(ctx, client)

	store := migrate.NewMongoStore(database.GetCollection(client, "users"))
	migrator := migrate.New(store, migrate.Config{
		BatchSize:    *batchSize,
		Pause:        *pause,
		DryRun:       *dryRun,
		CreateBackup: *backup,
		SkipExisting: *skipExisting,
	})

	summary, err := migrator.Run(ctx)
	if err != nil {
		log.Fatal("Migration failed: ", err)
	}

	log.Printf("migration finished in %s: total=%d already_complete=%d success=%d partial=%d errors=%d fields_created=%d dry_run=%v",
		summary.FinishedAt.Sub(summary.StartedAt),
		summary.Total, summary.AlreadyComplete, summary.Success,
		summary.Partial, summary.Errors, summary.FieldsCreated, summary.DryRun)
	for _, failure := range summary.Failures {
		log.Println("failure:", failure)
	}
}
