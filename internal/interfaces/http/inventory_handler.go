package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
)

// InventoryHandler maneja consultas de stock y el registro de operaciones (protegido).
// Verifica que el principal opere la ubicación afectada antes de invocar al registrador.
type InventoryHandler struct {
	recorder    *inventory.RecorderUseCase
	query       *inventory.QueryUseCase
	warehouseID string
}

// NewInventoryHandler construye el handler. warehouseID es la bodega que recibe compras.
func NewInventoryHandler(recorder *inventory.RecorderUseCase, query *inventory.QueryUseCase, warehouseID string) *InventoryHandler {
	return &InventoryHandler{recorder: recorder, query: query, warehouseID: warehouseID}
}

// ListStock godoc
// @Summary      Stock de una ubicación
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  false  "Ubicación; obligatoria si el usuario opera varias"
// @Success      200  {array}   dto.InventoryItemResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/inventory [get]
func (h *InventoryHandler) ListStock(c *fiber.Ctx) error {
	items, err := h.query.Stock(c.UserContext(), GetPrincipal(c), c.Query("location_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(items)
}

// ListLogs godoc
// @Summary      Registros de operación
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        kind         query  string  false  "sale,purchase,transfer,return,manufacturer_return,damaged"
// @Param        location_id  query  string  false  "Ubicación"
// @Param        from         query  string  false  "YYYY-MM-DD"
// @Param        to           query  string  false  "YYYY-MM-DD"
// @Param        limit        query  int     false  "Límite (default 50)"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.LogListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/logs [get]
func (h *InventoryHandler) ListLogs(c *fiber.Ctx) error {
	var in dto.LogQueryRequest
	if ok, err := parseQuery(c, &in); !ok {
		return err
	}
	out, err := h.query.Logs(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetLog godoc
// @Summary      Obtener un registro
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        kind  path  string  true  "Tipo de registro"
// @Param        id    path  string  true  "ID del registro"
// @Success      200  {object}  dto.LogRecordResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/logs/{kind}/{id} [get]
func (h *InventoryHandler) GetLog(c *fiber.Ctx) error {
	out, err := h.query.GetLog(c.UserContext(), GetPrincipal(c), c.Params("kind"), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RecordSale godoc
// @Summary      Registrar venta
// @Description  Descuenta stock de la tienda y guarda la venta. Si algún renglón no alcanza, no se registra nada.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordSaleRequest  true  "store_id, lines, payment_mode, discount"
// @Success      201   {object}  dto.LogRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  InsufficientStockResponse
// @Router       /api/sales [post]
func (h *InventoryHandler) RecordSale(c *fiber.Ctx) error {
	var in dto.RecordSaleRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	p := GetPrincipal(c)
	if !p.CanAccessLocation(in.StoreID) {
		return forbidLocation(c, in.StoreID)
	}
	out, err := h.recorder.RecordSaleFromRequest(c.UserContext(), p.UserID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RecordPurchase godoc
// @Summary      Registrar compra
// @Description  Ingresa a bodega lo facturado por el laboratorio. El número de factura es la llave de idempotencia.
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordPurchaseRequest  true  "invoice_no, manufacturer_id, lines"
// @Success      201   {object}  dto.LogRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *InventoryHandler) RecordPurchase(c *fiber.Ctx) error {
	var in dto.RecordPurchaseRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	p := GetPrincipal(c)
	if !p.CanAccessLocation(h.warehouseID) {
		return forbidLocation(c, h.warehouseID)
	}
	out, err := h.recorder.RecordPurchaseFromRequest(c.UserContext(), p.UserID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RecordTransfer godoc
// @Summary      Registrar traslado
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordTransferRequest  true  "from_location_id, to_location_id, lines"
// @Success      201   {object}  dto.LogRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  InsufficientStockResponse
// @Router       /api/transfers [post]
func (h *InventoryHandler) RecordTransfer(c *fiber.Ctx) error {
	return h.recordMove(c, h.recorder.RecordTransferFromRequest)
}

// RecordReturn godoc
// @Summary      Registrar devolución a bodega
// @Tags         returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordTransferRequest  true  "from_location_id (tienda), to_location_id (bodega), lines"
// @Success      201   {object}  dto.LogRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  InsufficientStockResponse
// @Router       /api/returns [post]
func (h *InventoryHandler) RecordReturn(c *fiber.Ctx) error {
	return h.recordMove(c, h.recorder.RecordReturnFromRequest)
}

type moveRecorder func(ctx context.Context, actorID string, in dto.RecordTransferRequest) (*dto.LogRecordResponse, error)

func (h *InventoryHandler) recordMove(c *fiber.Ctx, record moveRecorder) error {
	var in dto.RecordTransferRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	p := GetPrincipal(c)
	if !p.CanAccessLocation(in.FromID) {
		return forbidLocation(c, in.FromID)
	}
	out, err := record(c.UserContext(), p.UserID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RecordManufacturerReturn godoc
// @Summary      Registrar devolución al laboratorio
// @Description  Descuenta stock (bodega por defecto) contra una nota débito; la nota es la llave de idempotencia.
// @Tags         returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordManufacturerReturnRequest  true  "debit_note_no, manufacturer_id, lines, reason"
// @Success      201   {object}  dto.LogRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  InsufficientStockResponse
// @Router       /api/returns/manufacturer [post]
func (h *InventoryHandler) RecordManufacturerReturn(c *fiber.Ctx) error {
	var in dto.RecordManufacturerReturnRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	loc := in.LocationID
	if loc == "" {
		loc = h.warehouseID
	}
	p := GetPrincipal(c)
	if !p.CanAccessLocation(loc) {
		return forbidLocation(c, loc)
	}
	out, err := h.recorder.RecordManufacturerReturnFromRequest(c.UserContext(), p.UserID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RecordDamaged godoc
// @Summary      Registrar baja por daño o vencimiento
// @Tags         damaged
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordDamagedRequest  true  "location_id, medicine_id, quantity, reason"
// @Success      201   {object}  dto.LogRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  InsufficientStockResponse
// @Router       /api/damaged [post]
func (h *InventoryHandler) RecordDamaged(c *fiber.Ctx) error {
	var in dto.RecordDamagedRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	p := GetPrincipal(c)
	if !p.CanAccessLocation(in.LocationID) {
		return forbidLocation(c, in.LocationID)
	}
	out, err := h.recorder.RecordDamagedFromRequest(c.UserContext(), p.UserID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
