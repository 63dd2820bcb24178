package repo

import (
	"context"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/db"
)

var testDatabase *mongo.Database

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		log.Printf("skipping repository tests, cannot start mongo container: %v", err)
		os.Exit(0)
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		log.Fatalf("failed to get mongo connection string: %v", err)
	}

	testDatabase, err = db.OpenConnection(uri, "chat_test")
	if err != nil {
		log.Fatalf("failed to connect to test mongo: %v", err)
	}

	code := m.Run()

	_ = testDatabase.Client().Disconnect(ctx)
	_ = container.Terminate(ctx)
	os.Exit(code)
}

// testCollection returns a collection name unique to the calling test so
// tests never see each other's documents.
func testCollection(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
