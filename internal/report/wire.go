//go:build wireinject
// +build wireinject

package report

import (
	"github.com/google/wire"

	reporthttp "github.com/shopseed/shopseed/internal/report/delivery/http"
	"github.com/shopseed/shopseed/internal/report/query"
	"github.com/shopseed/shopseed/internal/store"
)

// QuerySet provides the read-only query layer
var QuerySet = wire.NewSet(query.New)

// InitializeReportHandler initializes the report HTTP handler with all dependencies
func InitializeReportHandler(st *store.Store) (*reporthttp.ReportHandler, error) {
	wire.Build(
		QuerySet,
		reporthttp.NewReportHandler,
	)
	return nil, nil
}
