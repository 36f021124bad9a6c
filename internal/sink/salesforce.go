package sink

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leads-cli/internal/model"
	"github.com/sells-group/leads-cli/pkg/salesforce"
)

// SalesforceSink inserts emitted leads into a Salesforce object.
type SalesforceSink struct {
	client  salesforce.Client
	sObject string
}

// NewSalesforceSink creates a sink that inserts into the named SObject.
func NewSalesforceSink(client salesforce.Client, sObject string) *SalesforceSink {
	if sObject == "" {
		sObject = "Lead"
	}
	return &SalesforceSink{client: client, sObject: sObject}
}

// Deliver inserts the leads as a collection. Per-record failures are
// logged and counted; the call errors only if every record failed or
// the API call itself did.
func (s *SalesforceSink) Deliver(ctx context.Context, leads []*model.Lead) error {
	if len(leads) == 0 {
		return nil
	}

	records := make([]map[string]any, len(leads))
	for i, lead := range leads {
		record := make(map[string]any, len(model.Columns()))
		for k, v := range lead.Fields() {
			if v != "" {
				record[k] = v
			}
		}
		records[i] = record
	}

	results, err := s.client.InsertCollection(ctx, s.sObject, records)
	if err != nil {
		return eris.Wrap(err, "sink: salesforce insert")
	}

	failed := 0
	for i, r := range results {
		if !r.Success {
			failed++
			zap.L().Warn("sink: salesforce record rejected",
				zap.String("dr_number", leads[i].DRNumber),
				zap.Strings("errors", r.Errors))
		}
	}
	if failed == len(results) && failed > 0 {
		return eris.Errorf("sink: salesforce rejected all %d records", failed)
	}
	if failed > 0 {
		zap.L().Warn("sink: salesforce partial delivery",
			zap.Int("failed", failed), zap.Int("total", len(results)))
	}
	return nil
}
