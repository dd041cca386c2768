package harness

import (
	"encoding/csv"
	"fmt"
	"io"
)

// DumpCSV writes one row per sample (n, xL, xR, yL, yR, gain) to w, for
// plotting a limiter run in an external tool. gain may be nil if the
// caller did not capture it.
func DumpCSV(w io.Writer, xL, xR, yL, yR, gain []float64) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"n", "xL", "xR", "yL", "yR", "gain"}); err != nil {
		return err
	}

	for i := range xL {
		g := ""
		if gain != nil {
			g = fmt.Sprintf("%v", gain[i])
		}
		row := []string{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("%v", xL[i]),
			fmt.Sprintf("%v", xR[i]),
			fmt.Sprintf("%v", yL[i]),
			fmt.Sprintf("%v", yR[i]),
			g,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}
