package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"

	"github.com/sells-group/leads-cli/internal/model"
	"github.com/sells-group/leads-cli/pkg/notion"
)

// AuditSink records one Notion page per sync run in an audit database.
type AuditSink struct {
	client notion.Client
	dbID   string
}

// NewAuditSink creates a sink that writes run pages into the database.
func NewAuditSink(client notion.Client, dbID string) *AuditSink {
	return &AuditSink{client: client, dbID: dbID}
}

// LogRun creates the audit page for a finished run.
func (s *AuditSink) LogRun(ctx context.Context, run *model.Run) error {
	if run.Result == nil {
		return eris.New("sink: run has no result")
	}

	started := notionapi.Date(run.StartedAt)
	props := notionapi.Properties{
		"Name": notionapi.TitleProperty{
			Type: notionapi.PropertyTypeTitle,
			Title: []notionapi.RichText{
				{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{
					Content: fmt.Sprintf("Sync %s", run.StartedAt.Format(time.RFC3339)),
				}},
			},
		},
		"Status": notionapi.RichTextProperty{
			Type: notionapi.PropertyTypeRichText,
			RichText: []notionapi.RichText{
				{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: string(run.Status)}},
			},
		},
		"Fetched":      notionapi.NumberProperty{Number: float64(run.Result.Fetched)},
		"Filtered Out": notionapi.NumberProperty{Number: float64(run.Result.FilteredOut)},
		"Duplicates":   notionapi.NumberProperty{Number: float64(run.Result.Duplicates)},
		"Emitted":      notionapi.NumberProperty{Number: float64(run.Result.Emitted)},
		"Started": notionapi.DateProperty{
			Date: &notionapi.DateObject{Start: &started},
		},
	}
	if run.Result.OutputFile != "" {
		props["Output File"] = notionapi.RichTextProperty{
			Type: notionapi.PropertyTypeRichText,
			RichText: []notionapi.RichText{
				{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: run.Result.OutputFile}},
			},
		}
	}

	req := &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(s.dbID),
		},
		Properties: props,
	}

	if _, err := s.client.CreatePage(ctx, req); err != nil {
		return eris.Wrap(err, "sink: notion audit page")
	}
	return nil
}
