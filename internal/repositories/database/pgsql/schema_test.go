package pgsql_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gochicken/gochicken_backend/internal/core/domain"
)

// The repositories write domain enum values to the database verbatim, so the
// schema CHECK constraints must permit every constant the domain defines. A
// drifted constraint only surfaces as a 23514 at insert time in production.
func TestSchemaPermitsDomainEnums(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("..", "..", "..", "..", "migrations", "000001_init_schema.up.sql"))
	require.NoError(t, err)
	schema := string(raw)

	enums := []string{
		string(domain.SaleCompleted),
		string(domain.SaleOnLoan),
		string(domain.OriginManualWeb),
		string(domain.OriginMobilePOS),
		string(domain.ItemKindProduct),
		string(domain.ItemKindRawMaterial),
		string(domain.AuditCreate),
		string(domain.AuditUpdate),
		string(domain.AuditDelete),
	}
	for _, v := range enums {
		assert.Contains(t, schema, "'"+v+"'", "schema must permit enum value %s", v)
	}
}
