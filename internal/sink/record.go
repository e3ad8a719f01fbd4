package sink

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wonny/factorlab/internal/contracts"
)

const dateLayout = "2006-01-02"

// pathSafe maps path separators in tickers (BRK/B) to '_'
var pathSafe = strings.NewReplacer("/", "_", `\`, "_")

// fileName is the per-ticker output file name, e.g. BRK_B.csv
func fileName(ticker, ext string) string {
	return pathSafe.Replace(ticker) + ext
}

func checkTicker(ticker string) error {
	if strings.TrimSpace(ticker) == "" {
		return fmt.Errorf("empty ticker")
	}
	return nil
}

// record renders a row in contracts.FeatureColumns order
func record(row *contracts.FeatureRow) []string {
	nums := row.Numbers()
	out := make([]string, 0, len(contracts.FeatureColumns))
	out = append(out, row.Date.Format(dateLayout), row.AsOf.Format(dateLayout))
	for _, v := range nums {
		out = append(out, strconv.FormatFloat(v, 'g', -1, 64))
	}
	return append(out, row.Ticker)
}
