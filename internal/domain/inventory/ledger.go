package inventory

import (
	"sort"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// LedgerRow saldo por medicamento y ubicación en un período.
// Balance = Opening + Received − Sold − Returned − TransferredOut − Damaged.
type LedgerRow struct {
	LocationID     string `json:"location_id"`
	MedicineID     string `json:"medicine_id"`
	MedicineName   string `json:"medicine_name"`
	Opening        int64  `json:"opening"`
	Received       int64  `json:"received"` // compras + traslados/devoluciones entrantes
	Sold           int64  `json:"sold"`
	Returned       int64  `json:"returned"` // devoluciones a bodega o laboratorio
	TransferredOut int64  `json:"transferred_out"`
	Damaged        int64  `json:"damaged"`
	Balance        int64  `json:"balance"`
}

func (r *LedgerRow) net() int64 {
	return r.Received - r.Sold - r.Returned - r.TransferredOut - r.Damaged
}

func (r *LedgerRow) isEmpty() bool {
	return r.Opening == 0 && r.Balance == 0 && r.Received == 0 && r.Sold == 0 &&
		r.Returned == 0 && r.TransferredOut == 0 && r.Damaged == 0
}

// BuildLedger reconstruye el libro de inventario [from, to] desde el snapshot actual y los registros.
// Los registros posteriores a `to` se descuentan del snapshot para obtener el saldo al cierre;
// los anteriores a `from` ya están reflejados en el saldo inicial.
func BuildLedger(snapshot []*entity.InventoryRecord, logs []entity.LogRecord, from, to time.Time) []LedgerRow {
	rows := map[string]*LedgerRow{}
	current := map[string]int64{}
	after := map[string]int64{}

	row := func(locationID, medicineID, name string) *LedgerRow {
		key := entity.InventoryKey(locationID, medicineID)
		r, ok := rows[key]
		if !ok {
			r = &LedgerRow{LocationID: locationID, MedicineID: medicineID}
			rows[key] = r
		}
		if r.MedicineName == "" {
			r.MedicineName = name
		}
		return r
	}

	for _, rec := range snapshot {
		row(rec.LocationID, rec.MedicineID, rec.MedicineName)
		current[rec.Key()] += rec.Quantity
	}

	for _, rec := range logs {
		at := rec.Header().OccurredAt
		if at.Before(from) {
			continue
		}
		if at.After(to) {
			for _, d := range rec.StockDeltas() {
				row(d.LocationID, d.MedicineID, "")
				after[entity.InventoryKey(d.LocationID, d.MedicineID)] += d.Quantity
			}
			continue
		}
		classify(rec, row)
	}

	out := make([]LedgerRow, 0, len(rows))
	for key, r := range rows {
		r.Balance = current[key] - after[key]
		r.Opening = r.Balance - r.net()
		if r.isEmpty() {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LocationID != out[j].LocationID {
			return out[i].LocationID < out[j].LocationID
		}
		return out[i].MedicineID < out[j].MedicineID
	})
	return out
}

func classify(rec entity.LogRecord, row func(locationID, medicineID, name string) *LedgerRow) {
	switch v := rec.(type) {
	case *entity.Sale:
		for _, l := range v.Lines {
			row(v.StoreID, l.MedicineID, l.MedicineName).Sold += l.Quantity
		}
	case *entity.Purchase:
		for _, l := range v.Lines {
			row(v.LocationID, l.MedicineID, l.MedicineName).Received += l.Quantity
		}
	case *entity.Transfer:
		for _, l := range v.Lines {
			out := row(v.FromID, l.MedicineID, l.MedicineName)
			if v.IsReturn {
				out.Returned += l.Quantity
			} else {
				out.TransferredOut += l.Quantity
			}
			row(v.ToID, l.MedicineID, l.MedicineName).Received += l.Quantity
		}
	case *entity.ManufacturerReturn:
		for _, l := range v.Lines {
			row(v.LocationID, l.MedicineID, l.MedicineName).Returned += l.Quantity
		}
	case *entity.DamagedStockEntry:
		for _, l := range v.Lines {
			row(v.LocationID, l.MedicineID, l.MedicineName).Damaged += l.Quantity
		}
	}
}
