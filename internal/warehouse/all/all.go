// Package all registers every warehouse backend. Programs blank-import it to
// make the full set available to warehouse.Open.
package all

import (
	_ "github.com/A7md-Waly/RealEstate-ETL-Pipeline/internal/warehouse/beeline"
	_ "github.com/A7md-Waly/RealEstate-ETL-Pipeline/internal/warehouse/postgres"
	_ "github.com/A7md-Waly/RealEstate-ETL-Pipeline/internal/warehouse/sqlite"
)
