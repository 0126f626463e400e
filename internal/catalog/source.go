package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/utafrali/fashly/internal/domain"
	apperrors "github.com/utafrali/fashly/pkg/errors"
	"github.com/utafrali/fashly/pkg/httpclient"
)

//go:embed data/catalog.json
var embeddedCatalog []byte

// Document is the wire shape of a catalog source.
type Document struct {
	Products   []domain.Product  `json:"products"`
	Categories []domain.Category `json:"categories"`
}

// Decode parses and validates a catalog document.
func Decode(data []byte) (*Catalog, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return fromDocument(doc)
}

func fromDocument(doc Document) (*Catalog, error) {
	if len(doc.Products) == 0 {
		return nil, fmt.Errorf("catalog has no products")
	}
	return New(doc.Products, doc.Categories)
}

// Embedded returns the catalog compiled into the binary.
func Embedded() (*Catalog, error) {
	c, err := Decode(embeddedCatalog)
	if err != nil {
		return nil, fmt.Errorf("embedded catalog: %w", err)
	}
	return c, nil
}

// Load fetches the catalog from url through client. An empty url, a failed
// fetch or an invalid document all fall back to the embedded catalog.
func Load(ctx context.Context, url string, client httpclient.Doer, logger *slog.Logger) (*Catalog, error) {
	if url == "" || client == nil {
		return Embedded()
	}

	var doc Document
	if err := httpclient.GetJSON(ctx, client, url, "catalog", &doc); err != nil {
		level, msg := slog.LevelWarn, "remote catalog unavailable, using embedded catalog"
		// A 4xx will not go away by retrying: the URL or its access is wrong.
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && httpclient.IsClientError(appErr.Status) {
			level, msg = slog.LevelError, "remote catalog rejected the request, using embedded catalog"
		}
		logger.Log(ctx, level, msg,
			slog.String("url", url),
			slog.String("error", err.Error()),
		)
		return Embedded()
	}

	c, err := fromDocument(doc)
	if err != nil {
		logger.WarnContext(ctx, "remote catalog invalid, using embedded catalog",
			slog.String("url", url),
			slog.String("error", err.Error()),
		)
		return Embedded()
	}

	logger.InfoContext(ctx, "catalog loaded",
		slog.String("url", url),
		slog.Int("products", c.Len()),
	)
	return c, nil
}
