package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/studioops/phasegate/internal/api"
	"github.com/studioops/phasegate/internal/auth"
	"github.com/studioops/phasegate/internal/config"
	"github.com/studioops/phasegate/internal/crypto"
	"github.com/studioops/phasegate/internal/ledger"
	"github.com/studioops/phasegate/internal/ledger/pgstore"
	"github.com/studioops/phasegate/internal/ledger/sqlstore"
)

func main() {
	if err := runFn(os.Args[1:], os.Getenv, listenAndServe, newServer); err != nil {
		fatalf("server error: %v", err)
	}
}

var runFn = run
var fatalf = log.Fatalf

func newServer(cfg config.Config) (*http.Server, error) {
	store, err := openStore(cfg.DB)
	if err != nil {
		return nil, err
	}

	service, err := api.NewEvaluateService(cfg.PolicyPath, store)
	if err != nil {
		return nil, err
	}

	if cfg.SigningKey.PrivateKeyPath != "" {
		priv, pub, err := crypto.LoadEd25519PrivateKey(cfg.SigningKey.PrivateKeyPath)
		if err != nil {
			return nil, err
		}
		keyID := cfg.SigningKey.KeyID
		if keyID == "" {
			keyID = "default"
		}
		service.WithSigner(keyID, priv, pub)
	}

	h := &api.Handler{
		Auth:    &auth.TokenAuthenticator{Token: cfg.Auth.DevToken},
		Service: service,
	}
	return &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.NewRouter(h),
		ReadHeaderTimeout: 5 * time.Second,
	}, nil
}

func openStore(db config.DBConfig) (ledger.Store, error) {
	switch db.Driver {
	case "sqlite":
		store, err := sqlstore.OpenSQLite(db.DSN)
		if err != nil {
			return nil, err
		}
		if err := ledger.Migrate(store.DB(), ledger.DBSQLite); err != nil {
			return nil, err
		}
		return store, nil
	case "postgres":
		store, err := pgstore.OpenPostgres(db.DSN)
		if err != nil {
			return nil, err
		}
		if err := ledger.Migrate(store.DB(), ledger.DBPostgres); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return ledger.NewInMemoryStore(), nil
	}
}

type envFn func(string) string
type listenFn func(*http.Server) error
type serverFactory func(config.Config) (*http.Server, error)

func run(args []string, getenv envFn, listen listenFn, factory serverFactory) error {
	fs := flag.NewFlagSet("phasegate-gateway", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to phasegate config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfgFile := *configPath
	if cfgFile == "" {
		cfgFile = getenv("PHASEGATE_CONFIG_PATH")
	}

	var cfg config.Config
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
	} else {
		loaded, err := config.FromEnv()
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.PolicyPath == "" {
		cfg.PolicyPath = "config/phase_policy.json"
	}

	server, err := factory(cfg)
	if err != nil {
		return err
	}

	log.Printf("phasegate-gateway listening on %s", cfg.ListenAddr)
	if err := listen(server); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func listenAndServe(server *http.Server) error {
	return server.ListenAndServe()
}
