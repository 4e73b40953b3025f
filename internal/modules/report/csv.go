package report

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteCSV writes the day series, a blank row, then the item breakdown.
func WriteCSV(w io.Writer, rep *Report) error {
	cw := csv.NewWriter(w)
	records := [][]string{{"Date", "Revenue", "Orders"}}
	for _, d := range rep.ByDay {
		records = append(records, []string{d.Day, money(d.Revenue), strconv.Itoa(d.Orders)})
	}
	records = append(records, []string{}, []string{"Item", "Quantity", "Revenue"})
	for _, it := range rep.ByItem {
		records = append(records, []string{it.Name, strconv.Itoa(it.QtySold), money(it.Revenue)})
	}
	if err := cw.WriteAll(records); err != nil {
		return err
	}
	return cw.Error()
}

func money(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
