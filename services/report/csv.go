package report

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
)

const (
	estadoSolvent = "Al día"
	estadoDebtor  = "Pendiente"
)

// ExportCSV writes the filtered participant listing in the agreed export
// layout: Nombre,Email,Deuda,Estado.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer, filter Filter, search string) error {
	summaries, err := s.List(ctx, filter, search)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Nombre", "Email", "Deuda", "Estado"}); err != nil {
		return err
	}
	for _, sum := range summaries {
		estado := estadoDebtor
		if sum.IsFullyPaid {
			estado = estadoSolvent
		}
		row := []string{
			sum.Name,
			sum.Email,
			strconv.FormatInt(sum.PendingAmount, 10),
			estado,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
