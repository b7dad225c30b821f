// Command seed fills the users collection with generated dummy records.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"users-rest-api/cmd/api/infrastructure"
	"users-rest-api/internal/adapter/cache"
	mongorepo "users-rest-api/internal/adapter/db/mongodb"
	"users-rest-api/internal/config"
	"users-rest-api/internal/domain/user"
	"users-rest-api/pkg/logger"
	"users-rest-api/pkg/mongodb"
)

var (
	firstNames = []string{"Ada", "Alan", "Grace", "Edsger", "Barbara", "Ken", "Margaret", "Dennis", "Radia", "Linus"}
	lastNames  = []string{"Lovelace", "Turing", "Hopper", "Dijkstra", "Liskov", "Thompson", "Hamilton", "Ritchie", "Perlman", "Torvalds"}
	locations  = []string{"London", "Manchester", "New York", "Amsterdam", "Boston", "Berkeley", "Cambridge", "Murray Hill", "Seattle", "Helsinki"}
)

func main() {
	count := flag.Int("n", 10, "number of users to insert")
	drop := flag.Bool("drop", false, "delete existing users before inserting")
	flag.Parse()

	if err := run(*count, *drop); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run(count int, drop bool) error {
	if count < 0 {
		return fmt.Errorf("invalid -n %d: must not be negative", count)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "."
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(logger.Config{
		Level:       cfg.Logger.Level,
		Format:      cfg.Logger.Format,
		OutputPath:  cfg.Logger.OutputPath,
		ServiceName: cfg.Logger.ServiceName + "-seed",
		Environment: cfg.App.Env,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync(l)

	client, err := mongodb.NewClient(mongodb.Config{
		URI:                    cfg.Mongo.URI,
		Database:               cfg.Mongo.Database,
		ServerSelectionTimeout: cfg.Mongo.ServerSelectionTimeout(),
		ConnectRetries:         cfg.Mongo.ConnectRetries,
		ConnectBackoff:         cfg.Mongo.ConnectBackoff(),
	}, l)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	defer client.Disconnect(context.Background())

	if err := client.Connect(ctx); err != nil {
		return err
	}

	repo := mongorepo.NewUserRepoMongo(client.Database(), l)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}

	s := &seeder{repo: repo, log: l}
	if rdb := infrastructure.NewRedisClient(ctx, cfg, l); rdb != nil {
		defer rdb.Close()
		s.cache = cache.NewRedisUserListCache(rdb.Client, cfg.Redis.CacheTTL(), l)
	} else if cfg.Redis.CacheEnabled() {
		l.Warn("cached user listings may be stale until they expire",
			zap.Duration("ttl", cfg.Redis.CacheTTL()))
	}

	return s.seed(ctx, count, drop)
}

// userWriter is the write side of the users store used for seeding.
type userWriter interface {
	InsertMany(ctx context.Context, users []user.User) ([]string, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// seeder writes generated users and drops cached listings afterwards.
// A nil cache skips invalidation.
type seeder struct {
	repo  userWriter
	cache cache.UserListCache
	log   *zap.Logger
}

func (s *seeder) seed(ctx context.Context, count int, drop bool) error {
	if drop {
		if _, err := s.repo.DeleteAll(ctx); err != nil {
			return err
		}
	}

	ids, err := s.repo.InsertMany(ctx, generateUsers(count))
	if err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			return fmt.Errorf("users written but cached listings not cleared: %w", err)
		}
	}

	s.log.Info("seed complete", zap.Int("inserted", len(ids)), zap.Bool("dropped", drop))
	return nil
}

// generateUsers returns n deterministic users with unique emails.
func generateUsers(n int) []user.User {
	users := make([]user.User, n)
	for i := range users {
		first := firstNames[i%len(firstNames)]
		last := lastNames[(i/len(firstNames)+i)%len(lastNames)]
		users[i] = user.User{
			Name:     first + " " + last,
			Email:    fmt.Sprintf("%s.%s.%d@example.com", strings.ToLower(first), strings.ToLower(last), i+1),
			Location: locations[(i*3)%len(locations)],
		}
	}
	return users
}
