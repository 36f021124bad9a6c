package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leads-cli/internal/mapper"
	"github.com/sells-group/leads-cli/internal/pipeline"
	"github.com/sells-group/leads-cli/internal/rules"
	"github.com/sells-group/leads-cli/internal/sink"
	"github.com/sells-group/leads-cli/internal/store"
	"github.com/sells-group/leads-cli/pkg/dodge"
	"github.com/sells-group/leads-cli/pkg/notion"
	sfpkg "github.com/sells-group/leads-cli/pkg/salesforce"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "leads.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// pipelineEnv bundles the pipeline with the resources it owns.
type pipelineEnv struct {
	Pipeline *pipeline.Pipeline
	Store    store.Store
}

func (e *pipelineEnv) Close() {
	if err := e.Store.Close(); err != nil {
		zap.L().Warn("close store", zap.Error(err))
	}
}

// initPipeline builds the full sync pipeline from configuration. Sinks
// that are disabled in config are left out.
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	ruleSet, err := rules.Load(cfg.Rules.Path, rules.DefaultSheetName)
	if err != nil {
		st.Close()
		return nil, eris.Wrap(err, "load rules")
	}
	if ruleSet.Len() == 0 {
		zap.L().Warn("rule set is empty, every lead will be excluded",
			zap.String("path", cfg.Rules.Path))
	}

	dodgeClient := dodge.NewClient(cfg.Dodge.APIKey,
		dodge.WithBaseURL(cfg.Dodge.BaseURL),
		dodge.WithMaxPages(cfg.Dodge.MaxPages),
		dodge.WithRateLimit(cfg.Dodge.RPS),
	)

	m := mapper.New(mapper.Constants{
		Field1: cfg.CRM.Field1,
		Field2: cfg.CRM.Field2,
		Field3: cfg.CRM.Field3,
		Field4: cfg.CRM.Field4,
		Field5: cfg.CRM.Field5,
		Field6: cfg.CRM.Field6,
		Field7: cfg.CRM.Field7,
	})

	writer := sink.NewDatasetWriter(cfg.Output.Dir)

	var ftp pipeline.Uploader
	if cfg.FTP.Enabled {
		ftp = sink.NewFTPSink(sink.FTPOptions{
			Addr:     cfg.FTP.Addr,
			User:     cfg.FTP.User,
			Password: cfg.FTP.Password,
			Dir:      cfg.FTP.Dir,
			Timeout:  time.Duration(cfg.FTP.TimeoutSecs) * time.Second,
		})
	}

	var crm pipeline.Deliverer
	if cfg.Salesforce.Enabled {
		sfClient, err := sfpkg.Connect(
			cfg.Salesforce.LoginURL,
			cfg.Salesforce.ClientID,
			cfg.Salesforce.Username,
			cfg.Salesforce.KeyPath,
			sfpkg.WithRateLimit(cfg.Salesforce.RPS),
		)
		if err != nil {
			st.Close()
			return nil, eris.Wrap(err, "init salesforce")
		}
		crm = sink.NewSalesforceSink(sfClient, cfg.Salesforce.SObject)
	}

	var audit pipeline.AuditLogger
	if cfg.Notion.Enabled {
		audit = sink.NewAuditSink(notion.NewClient(cfg.Notion.Token), cfg.Notion.AuditDB)
	}

	p := pipeline.New(dodgeClient, m, ruleSet, st, writer, ftp, crm, audit)
	return &pipelineEnv{Pipeline: p, Store: st}, nil
}
