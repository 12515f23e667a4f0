package db

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/jmehdipour/loyalty-admin/internal/logger"
)

type FirebaseOpts struct {
	ProjectID   string
	Credentials string // inline JSON or a file path; empty uses application default credentials
}

// Firebase holds the clients the admin backend needs from one app.
type Firebase struct {
	App       *firebase.App
	Firestore *firestore.Client
	Auth      *auth.Client
}

func NewFirebase(ctx context.Context, opts FirebaseOpts) (*Firebase, error) {
	var clientOpts []option.ClientOption

	creds := strings.TrimSpace(opts.Credentials)
	switch {
	case creds == "":
		logger.Log.Info("firebase: using application default credentials")
	case strings.HasPrefix(creds, "{"):
		logger.Log.Info("firebase: using inline credentials")
		clientOpts = append(clientOpts, option.WithCredentialsJSON([]byte(creds)))
	default:
		logger.Log.Info("firebase: using credentials file", zap.String("path", creds))
		clientOpts = append(clientOpts, option.WithCredentialsFile(creds))
	}

	var cfg *firebase.Config
	if opts.ProjectID != "" {
		cfg = &firebase.Config{ProjectID: opts.ProjectID}
	}

	app, err := firebase.NewApp(ctx, cfg, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	ac, err := app.Auth(ctx)
	if err != nil {
		_ = fs.Close()
		return nil, fmt.Errorf("auth client: %w", err)
	}

	return &Firebase{App: app, Firestore: fs, Auth: ac}, nil
}

func (f *Firebase) Close() error { return f.Firestore.Close() }
