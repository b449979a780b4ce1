// Package testutil provides helpers for integration tests against the
// document store and the cache. Tests are skipped when the backing services
// are not reachable, unless TEST_REQUIRE_BACKENDS is set.
package testutil

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/kernelci/backend-go/internal/domain/model"
)

const connectTimeout = 5 * time.Second

// TestingTB is the subset of testing.TB these helpers need.
type TestingTB interface {
	Helper()
	Skip(args ...interface{})
	Skipf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	Cleanup(fn func())
}

// TestMongoURI returns the document store URI used by integration tests.
func TestMongoURI() string {
	return getEnvOrDefault("TEST_MONGO_URI", "mongodb://localhost:27017")
}

// TestMongoDatabase returns the database name used by integration tests.
func TestMongoDatabase() string {
	return getEnvOrDefault("TEST_MONGO_DATABASE", "kernel-ci-test")
}

// TestRedisAddr returns the Redis address used by integration tests.
func TestRedisAddr() string {
	return getEnvOrDefault("TEST_REDIS_ADDR", "localhost:6379")
}

// SetupTestMongo connects to the test document store, skipping the test when
// it is unreachable. The job collection is dropped after the test.
func SetupTestMongo(t TestingTB) *mongo.Database {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(TestMongoURI()))
	if err == nil {
		err = client.Ping(ctx, readpref.Primary())
	}
	if err != nil {
		if requireBackends() {
			t.Fatalf("test document store required but not available: %v", err)
		}
		t.Skipf("test document store not available, skipping: %v", err)
		return nil
	}

	db := client.Database(TestMongoDatabase())
	t.Cleanup(func() {
		cleanCtx, cleanCancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cleanCancel()
		if derr := db.Collection(model.JobCollection).Drop(cleanCtx); derr != nil {
			t.Fatalf("drop test job collection: %v", derr)
		}
		if derr := client.Disconnect(cleanCtx); derr != nil {
			t.Fatalf("disconnect test document store: %v", derr)
		}
	})
	return db
}

// SetupTestRedis connects to the test Redis, skipping the test when it is
// unreachable. The client is flushed and closed after the test.
func SetupTestRedis(t TestingTB) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: TestRedisAddr()})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		if requireBackends() {
			t.Fatalf("test redis required but not available: %v", err)
		}
		t.Skipf("test redis not available, skipping: %v", err)
		return nil
	}

	t.Cleanup(func() {
		cleanCtx, cleanCancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cleanCancel()
		if err := client.FlushDB(cleanCtx).Err(); err != nil {
			t.Fatalf("flush test redis: %v", err)
		}
		if err := client.Close(); err != nil {
			t.Fatalf("close test redis: %v", err)
		}
	})
	return client
}

func requireBackends() bool {
	v, err := strconv.ParseBool(os.Getenv("TEST_REQUIRE_BACKENDS"))
	return err == nil && v
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
