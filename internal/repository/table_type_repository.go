package repository

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/iliyamo/venue-booking-api/internal/database"
	"github.com/iliyamo/venue-booking-api/internal/model"
)

// TableTypeRepo manages the `table_types` table, listed smallest first.
type TableTypeRepo struct{ t table[model.TableType] }

func NewTableTypeRepo(gw *database.Gateway) *TableTypeRepo {
	return &TableTypeRepo{t: newTable[model.TableType](gw, "table_types", goqu.C("capacity").Asc())}
}

func tableTypeRecord(tt model.TableType) goqu.Record {
	return goqu.Record{
		"name":        tt.Name,
		"description": tt.Description,
		"capacity":    tt.Capacity,
		"price":       tt.Price,
	}
}

func (r *TableTypeRepo) Create(ctx context.Context, tt model.TableType) (model.TableType, error) {
	return r.t.insert(ctx, tableTypeRecord(tt))
}

func (r *TableTypeRepo) List(ctx context.Context) ([]model.TableType, error) { return r.t.list(ctx) }

func (r *TableTypeRepo) GetByID(ctx context.Context, id string) (model.TableType, error) {
	return r.t.find(ctx, id)
}

func (r *TableTypeRepo) Update(ctx context.Context, id string, tt model.TableType) (model.TableType, error) {
	return r.t.update(ctx, id, tableTypeRecord(tt))
}

func (r *TableTypeRepo) Delete(ctx context.Context, id string) (model.TableType, error) {
	return r.t.remove(ctx, id)
}
