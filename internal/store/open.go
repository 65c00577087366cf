package store

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	internalaws "github.com/imrishuroy/go-herbal-store/internal/aws"
)

const (
	defaultDatabaseName = "herbal"
	startupPingTimeout  = 10 * time.Second
)

// Options selects and configures a backend.
type Options struct {
	// URL is the connection string: mongodb://, mongodb+srv://, dynamodb://<prefix>
	// or memory://.
	URL string
	// DatabaseName overrides the database named in a Mongo URL.
	DatabaseName string
	// DynamoDB is used for dynamodb:// URLs; when nil a client is built from the
	// default AWS config.
	DynamoDB internalaws.DynamoDBAPI
	Logger   log.FieldLogger
}

// Open returns the backend selected by opts.URL. It never fails: a missing or
// unusable connection string yields an Unavailable store carrying the reason.
func Open(ctx context.Context, opts Options) Store {
	logger := opts.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}

	if opts.URL == "" {
		logger.Warn("DATABASE_URL not set, store unavailable")
		return Unavailable{Reason: "database not configured"}
	}

	scheme, rest, ok := strings.Cut(opts.URL, "://")
	if !ok {
		logger.Warn("invalid DATABASE_URL, store unavailable")
		return Unavailable{Reason: "invalid database url"}
	}
	// Mongo URLs may list several hosts; connstring parses those, not net/url.
	scheme = strings.ToLower(scheme)
	if scheme == "mongodb" || scheme == "mongodb+srv" {
		return openMongo(ctx, opts, logger)
	}

	u, err := url.Parse(scheme + "://" + rest)
	if err != nil {
		logger.WithError(err).Warn("invalid DATABASE_URL, store unavailable")
		return Unavailable{Reason: "invalid database url"}
	}

	switch scheme {
	case "dynamodb":
		prefix := u.Host + strings.TrimPrefix(u.Path, "/")
		client := opts.DynamoDB
		if client == nil {
			cfg, err := internalaws.LoadAWSConfig(ctx)
			if err != nil {
				logger.WithError(err).Warn("aws config unavailable, store unavailable")
				return Unavailable{Reason: err.Error()}
			}
			client = dynamodb.NewFromConfig(cfg)
		}
		logger.WithField("table_prefix", prefix).Info("using dynamodb store")
		return NewDynamo(client, prefix)
	case "memory":
		name := u.Host
		if name == "" {
			name = "memory"
		}
		logger.WithField("name", name).Info("using in-memory store")
		return NewMemory(name)
	default:
		logger.WithField("scheme", scheme).Warn("unsupported DATABASE_URL scheme, store unavailable")
		return Unavailable{Reason: fmt.Sprintf("unsupported database scheme %q", scheme)}
	}
}

func openMongo(ctx context.Context, opts Options, logger log.FieldLogger) Store {
	name := opts.DatabaseName
	if name == "" {
		cs, err := connstring.ParseAndValidate(opts.URL)
		if err != nil {
			logger.WithError(err).Warn("invalid mongo url, store unavailable")
			return Unavailable{Reason: "invalid database url"}
		}
		name = cs.Database
	}
	if name == "" {
		name = defaultDatabaseName
	}

	m, err := NewMongo(ctx, opts.URL, name)
	if err != nil {
		logger.WithError(err).Warn("mongo client unavailable")
		return Unavailable{Reason: err.Error()}
	}

	pingCtx, cancel := context.WithTimeout(ctx, startupPingTimeout)
	defer cancel()
	if err := m.Ping(pingCtx); err != nil {
		logger.WithError(err).Warn("mongo not reachable at startup")
	} else {
		logger.WithField("database", name).Info("connected to mongodb")
	}
	return m
}
