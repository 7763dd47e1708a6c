package stock_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abplast/estoque-api/internal/application/stock"
	"github.com/abplast/estoque-api/internal/domain"
	"github.com/abplast/estoque-api/internal/domain/entity"
	"github.com/abplast/estoque-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// memStore emula la disciplina transaccional del adaptador PostgreSQL: cada
// Run serializa con un mutex (equivalente al SELECT FOR UPDATE por fila) y
// las escrituras se aplican solo si el callback termina sin error (Commit).
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu         sync.Mutex
	products   map[string]*entity.Product
	movements  []*entity.StockMovement
	failCreate bool // fuerza fallo al crear el asiento, para probar atomicidad
}

func newMemStore(products ...*entity.Product) *memStore {
	s := &memStore{products: make(map[string]*entity.Product)}
	for _, p := range products {
		cp := *p
		s.products[p.ID] = &cp
	}
	return s
}

// memTx acumula escrituras pendientes; commit las aplica de una vez.
type memTx struct {
	store     *memStore
	qtyByID   map[string]int64
	movements []*entity.StockMovement
}

func (tx *memTx) commit() {
	for id, qty := range tx.qtyByID {
		tx.store.products[id].Quantity = qty
	}
	tx.store.movements = append(tx.store.movements, tx.movements...)
}

type memTxRunner struct{ store *memStore }

func (r *memTxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	tx := &memTx{store: r.store, qtyByID: make(map[string]int64)}
	if err := fn(&memProductRepo{tx: tx}, &memMovementRepo{tx: tx}); err != nil {
		return err // rollback: las escrituras pendientes se descartan
	}
	tx.commit()
	return nil
}

type memProductRepo struct{ tx *memTx }

func (r *memProductRepo) Create(p *entity.Product) error { return errors.New("no implementado") }
func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.GetForUpdate(id)
}
func (r *memProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	p, ok := r.tx.store.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	if qty, staged := r.tx.qtyByID[id]; staged {
		cp.Quantity = qty
	}
	return &cp, nil
}
func (r *memProductRepo) Update(p *entity.Product) error { return errors.New("no implementado") }
func (r *memProductRepo) UpdateQuantity(productID string, quantity int64) error {
	r.tx.qtyByID[productID] = quantity
	return nil
}
func (r *memProductRepo) List(limit, offset int) ([]*entity.Product, error) { return nil, nil }
func (r *memProductRepo) ListBelowQuantity(threshold int64) ([]*entity.Product, error) {
	return nil, nil
}
func (r *memProductRepo) Delete(id string) error { return errors.New("no implementado") }

type memMovementRepo struct{ tx *memTx }

func (r *memMovementRepo) Create(m *entity.StockMovement) error {
	if r.tx.store.failCreate {
		return errors.New("insert movement: conexión perdida")
	}
	cp := *m
	r.tx.movements = append(r.tx.movements, &cp)
	return nil
}
func (r *memMovementRepo) GetByID(id string) (*entity.StockMovement, error) { return nil, nil }
func (r *memMovementRepo) List(direction string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return nil, nil
}
func (r *memMovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error) {
	return nil, nil
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []*entity.AuditLog
}

func (a *fakeAudit) Record(ctx context.Context, log *entity.AuditLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, log)
	return nil
}

func (a *fakeAudit) byAction(action string) []*entity.AuditLog {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []*entity.AuditLog
	for _, e := range a.entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func buildUseCase(store *memStore) (*stock.RegisterMovementUseCase, *fakeAudit) {
	audit := &fakeAudit{}
	return stock.NewRegisterMovementUseCase(&memTxRunner{store: store}, audit), audit
}

func costOf(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func entradaInput(productID string, qty int64, cost string) stock.MovementInput {
	return stock.MovementInput{
		ProductID: productID,
		UserID:    "user-1",
		Direction: entity.DirectionIn,
		Quantity:  qty,
		UnitCost:  costOf(cost),
	}
}

func saidaInput(productID string, qty int64, reason string) stock.MovementInput {
	return stock.MovementInput{
		ProductID: productID,
		UserID:    "user-1",
		Direction: entity.DirectionOut,
		Quantity:  qty,
		Reason:    reason,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios de éxito
// ──────────────────────────────────────────────────────────────────────────────

// Producto en 10, entrada de 5 con costo 12.50 → 15 y un asiento in/5/12.50.
func TestRegisterMovement_EntradaExitosa(t *testing.T) {
	store := newMemStore(&entity.Product{ID: "p1", Name: "Parafuso", Quantity: 10})
	uc, _ := buildUseCase(store)

	res, err := uc.RegisterMovement(context.Background(), entradaInput("p1", 5, "12.50"))

	require.NoError(t, err)
	assert.Equal(t, int64(15), res.Product.Quantity, "la existencia debe subir a 15")
	assert.Equal(t, int64(15), store.products["p1"].Quantity, "el estado persistido debe reflejar la nueva cantidad")

	require.Len(t, store.movements, 1, "debe quedar exactamente un asiento en el libro")
	mov := store.movements[0]
	assert.Equal(t, entity.DirectionIn, mov.Direction)
	assert.Equal(t, int64(5), mov.Quantity)
	require.NotNil(t, mov.UnitCost)
	assert.True(t, mov.UnitCost.Equal(decimal.RequireFromString("12.50")))
	assert.Equal(t, "user-1", mov.CreatedBy)
	assert.Equal(t, res.Movement.ID, mov.ID)
}

// Salida válida con motivo Venda descuenta la existencia.
func TestRegisterMovement_SalidaExitosa(t *testing.T) {
	store := newMemStore(&entity.Product{ID: "p1", Name: "Parafuso", Quantity: 10})
	uc, _ := buildUseCase(store)

	res, err := uc.RegisterMovement(context.Background(), saidaInput("p1", 4, entity.ReasonVenda))

	require.NoError(t, err)
	assert.Equal(t, int64(6), res.Product.Quantity)
	require.Len(t, store.movements, 1)
	assert.Equal(t, entity.DirectionOut, store.movements[0].Direction)
	assert.Equal(t, entity.ReasonVenda, store.movements[0].Reason)
	assert.Nil(t, store.movements[0].UnitCost, "las salidas no llevan costo unitario")
	assert.Equal(t, int64(-4), store.movements[0].SignedQuantity())
}

// Invariante de secuencia: q0 + Σ(entradas) − Σ(salidas) == cantidad final,
// sin pasar nunca por negativo.
func TestRegisterMovement_InvarianteDeSecuencia(t *testing.T) {
	store := newMemStore(&entity.Product{ID: "p1", Name: "Parafuso", Quantity: 3})
	uc, _ := buildUseCase(store)
	ctx := context.Background()

	steps := []stock.MovementInput{
		entradaInput("p1", 10, "1.00"), // 13
		saidaInput("p1", 5, entity.ReasonVenda),  // 8
		saidaInput("p1", 8, entity.ReasonAjuste), // 0
		entradaInput("p1", 2, "3.25"),  // 2
	}
	for _, in := range steps {
		_, err := uc.RegisterMovement(ctx, in)
		require.NoError(t, err)
	}

	assert.Equal(t, int64(2), store.products["p1"].Quantity)

	var sum int64 = 3
	for _, m := range store.movements {
		sum += m.SignedQuantity()
		assert.GreaterOrEqual(t, sum, int64(0), "la existencia nunca debe ser negativa")
	}
	assert.Equal(t, store.products["p1"].Quantity, sum)
}

// Sin usuario, el movimiento se atribuye a la identidad system.
func TestRegisterMovement_UsuarioSistemaPorDefecto(t *testing.T) {
	store := newMemStore(&entity.Product{ID: "p1", Name: "Parafuso", Quantity: 1})
	uc, _ := buildUseCase(store)

	in := entradaInput("p1", 1, "2.00")
	in.UserID = ""
	res, err := uc.RegisterMovement(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, entity.SystemUserID, res.Movement.CreatedBy)
}

// ──────────────────────────────────────────────────────────────────────────────
// Taxonomía de errores: ningún estado cambia al fallar
// ──────────────────────────────────────────────────────────────────────────────

// Producto en 3, salida de 5 → InsufficientStock con solicitado y disponible.
func TestRegisterMovement_StockInsuficiente(t *testing.T) {
	store := newMemStore(&entity.Product{ID: "p1", Name: "Parafuso", Quantity: 3})
	uc, _ := buildUseCase(store)

	res, err := uc.RegisterMovement(context.Background(), saidaInput("p1", 5, entity.ReasonVenda))

	require.Nil(t, res)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insErr)
	assert.Equal(t, int64(5), insErr.Requested)
	assert.Equal(t, int64(3), insErr.Available)
	assert.Contains(t, err.Error(), "solicitado 5")
	assert.Contains(t, err.Error(), "disponible 3")

	assert.Equal(t, int64(3), store.products["p1"].Quantity, "la existencia no debe cambiar")
	assert.Empty(t, store.movements, "no debe crearse asiento")
}

// Cantidad 0 o negativa → InvalidMovement, sin cambios.
func TestRegisterMovement_CantidadNoPositiva(t *testing.T) {
	store := newMemStore(&entity.Product{ID: "p1", Name: "Parafuso", Quantity: 3})
	uc, _ := buildUseCase(store)
	ctx := context.Background()

	for _, qty := range []int64{0, -2} {
		_, err := uc.RegisterMovement(ctx, saidaInput("p1", qty, entity.ReasonVenda))
		require.ErrorIs(t, err, domain.ErrInvalidMovement, "cantidad %d", qty)
	}
	assert.Equal(t, int64(3), store.products["p1"].Quantity)
	assert.Empty(t, store.movements)
}

// Entrada sin costo unitario, o con costo no positivo → InvalidMovement.
func TestRegisterMovement_EntradaSinCosto(t *testing.T) {
	store := newMemStore(&entity.Product{ID: "p1", Name: "Parafuso", Quantity: 3})
	uc, _ := buildUseCase(store)
	ctx := context.Background()

	in := entradaInput("p1", 2, "1.00")
	in.UnitCost = nil
	_, err := uc.RegisterMovement(ctx, in)
	require.ErrorIs(t, err, domain.ErrInvalidMovement)

	_, err = uc.RegisterMovement(ctx, entradaInput("p1", 2, "0"))
	require.ErrorIs(t, err, domain.ErrInvalidMovement)

	assert.Empty(t, store.movements)
}

// Salida sin motivo o con motivo fuera del catálogo → InvalidMovement.
func TestRegisterMovement_MotivoInvalido(t *testing.T) {
	store := newMemStore(&entity.Product{ID: "p1", Name: "Parafuso", Quantity: 3})
	uc, _ := buildUseCase(store)
	ctx := context.Background()

	_, err := uc.RegisterMovement(ctx, saidaInput("p1", 1, ""))
	require.ErrorIs(t, err, domain.ErrInvalidMovement)

	_, err = uc.RegisterMovement(ctx, saidaInput("p1", 1, "Doação"))
	require.ErrorIs(t, err, domain.ErrInvalidMovement)

	assert.Equal(t, int64(3), store.products["p1"].Quantity)
	assert.Empty(t, store.movements)
}

// Dirección desconocida → InvalidMovement.
func TestRegisterMovement_DireccionDesconocida(t *testing.T) {
	store := newMemStore(&entity.Product{ID: "p1", Name: "Parafuso", Quantity: 3})
	uc, _ := buildUseCase(store)

	_, err := uc.RegisterMovement(context.Background(), stock.MovementInput{
		ProductID: "p1", UserID: "user-1", Direction: "transfer", Quantity: 1,
	})
	require.ErrorIs(t, err, domain.ErrInvalidMovement)
}

// Producto inexistente → ProductNotFound.
func TestRegisterMovement_ProductoInexistente(t *testing.T) {
	store := newMemStore()
	uc, _ := buildUseCase(store)

	_, err := uc.RegisterMovement(context.Background(), entradaInput("nope", 1, "1.00"))

	require.ErrorIs(t, err, domain.ErrProductNotFound)
	var nfErr *domain.ProductNotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "nope", nfErr.ProductID)
	assert.Empty(t, store.movements)
}

// El mismo input inválido dos veces produce el mismo tipo de error y nunca
// muta estado parcialmente.
func TestRegisterMovement_FalloIdempotente(t *testing.T) {
	store := newMemStore(&entity.Product{ID: "p1", Name: "Parafuso", Quantity: 3})
	uc, _ := buildUseCase(store)
	ctx := context.Background()

	in := saidaInput("p1", 5, entity.ReasonVenda)
	_, err1 := uc.RegisterMovement(ctx, in)
	_, err2 := uc.RegisterMovement(ctx, in)

	require.ErrorIs(t, err1, domain.ErrInsufficientStock)
	require.ErrorIs(t, err2, domain.ErrInsufficientStock)
	assert.Equal(t, err1.Error(), err2.Error())
	assert.Equal(t, int64(3), store.products["p1"].Quantity)
	assert.Empty(t, store.movements)
}

// Si el asiento del libro falla, la mutación de cantidad se revierte:
// ambos efectos son una unidad atómica.
func TestRegisterMovement_AtomicidadAnteFalloDelLibro(t *testing.T) {
	store := newMemStore(&entity.Product{ID: "p1", Name: "Parafuso", Quantity: 10})
	store.failCreate = true
	uc, _ := buildUseCase(store)

	_, err := uc.RegisterMovement(context.Background(), entradaInput("p1", 5, "1.00"))

	require.Error(t, err)
	assert.Equal(t, int64(10), store.products["p1"].Quantity, "la cantidad no debe cambiar sin asiento")
	assert.Empty(t, store.movements)
}

// ──────────────────────────────────────────────────────────────────────────────
// Auditoría
// ──────────────────────────────────────────────────────────────────────────────

// Todo intento, exitoso o fallido, llega al auditor con contexto estructurado.
func TestRegisterMovement_AuditoriaDeExitoYFallo(t *testing.T) {
	store := newMemStore(&entity.Product{ID: "p1", Name: "Parafuso", Quantity: 10})
	uc, audit := buildUseCase(store)
	ctx := context.Background()

	_, err := uc.RegisterMovement(ctx, entradaInput("p1", 5, "12.50"))
	require.NoError(t, err)
	_, err = uc.RegisterMovement(ctx, saidaInput("p1", 99, entity.ReasonVenda))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	applied := audit.byAction(entity.AuditActionMovementApplied)
	require.Len(t, applied, 1)
	assert.Equal(t, "user-1", applied[0].UserID)
	assert.Equal(t, int64(10), applied[0].Details["old_quantity"])
	assert.Equal(t, int64(15), applied[0].Details["new_quantity"])
	assert.Equal(t, "Parafuso", applied[0].Details["product_name"])
	assert.Equal(t, "12.5", applied[0].Details["unit_cost"])

	failed := audit.byAction(entity.AuditActionMovementFailed)
	require.Len(t, failed, 1)
	assert.Equal(t, int64(99), failed[0].Details["quantity"])
	assert.Contains(t, failed[0].Details["error"], "stock insuficiente")
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia
// ──────────────────────────────────────────────────────────────────────────────

// N salidas concurrentes pidiendo toda la existencia: exactamente una gana,
// las demás fallan con InsufficientStock y la cantidad final es 0.
func TestRegisterMovement_SalidasConcurrentes(t *testing.T) {
	const initial = int64(7)
	const workers = 16

	store := newMemStore(&entity.Product{ID: "p1", Name: "Parafuso", Quantity: initial})
	uc, _ := buildUseCase(store)

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := saidaInput("p1", initial, entity.ReasonVenda)
			in.UserID = fmt.Sprintf("user-%d", i)
			_, errs[i] = uc.RegisterMovement(context.Background(), in)
		}(i)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficient++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, ok, "exactamente una salida debe ganar")
	assert.Equal(t, workers-1, insufficient)
	assert.Equal(t, int64(0), store.products["p1"].Quantity)
	assert.Len(t, store.movements, 1)
}
