package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"autostyle/internal/auth"
	"autostyle/internal/catalog"
	"autostyle/internal/checkout"
	"autostyle/internal/domain/admindashboard"
	"autostyle/internal/domain/admins"
	"autostyle/internal/domain/categories"
	"autostyle/internal/domain/orders"
	"autostyle/internal/domain/products"
	"autostyle/internal/domain/storage"
	"autostyle/internal/domain/users"
	"autostyle/internal/domain/vehicles"
	"autostyle/internal/images"
	"autostyle/internal/ratelimiter"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAdminEmail    = "admin@autostyle.com"
	testAdminPassword = "password123"
)

type memCategories struct {
	byID map[string]categories.Category
	// inUse marks categories that still hold products
	inUse map[string]bool
}

func (m *memCategories) List(context.Context) ([]categories.Category, error) {
	out := make([]categories.Category, 0, len(m.byID))
	for _, c := range m.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memCategories) GetByID(_ context.Context, id string) (*categories.Category, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, categories.ErrNotFound
	}
	return &c, nil
}

func (m *memCategories) Nodes(context.Context) ([]catalog.Node, error) {
	nodes := make([]catalog.Node, 0, len(m.byID))
	for _, c := range m.byID {
		n := catalog.Node{ID: c.ID}
		if c.ParentID != nil {
			n.ParentID = *c.ParentID
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func (m *memCategories) Create(_ context.Context, c *categories.Category) error {
	for _, existing := range m.byID {
		if existing.ID == c.ID || existing.Slug == c.Slug {
			return categories.ErrDuplicate
		}
	}
	if c.ParentID != nil {
		if _, ok := m.byID[*c.ParentID]; !ok {
			return categories.ErrInvalidParent
		}
	}
	m.byID[c.ID] = *c
	return nil
}

func (m *memCategories) Update(_ context.Context, id string, p categories.Patch) error {
	c, ok := m.byID[id]
	if !ok {
		return categories.ErrNotFound
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Slug != nil {
		c.Slug = *p.Slug
	}
	if p.Description.Set {
		c.Description = p.Description.Value
	}
	if p.ParentID.Set {
		if v := p.ParentID.Value; v != nil {
			if _, ok := m.byID[*v]; !ok {
				return categories.ErrInvalidParent
			}
		}
		c.ParentID = p.ParentID.Value
	}
	m.byID[id] = c
	return nil
}

func (m *memCategories) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return categories.ErrNotFound
	}
	if m.inUse[id] {
		return categories.ErrInUse
	}
	delete(m.byID, id)
	for k, c := range m.byID {
		if c.ParentID != nil && *c.ParentID == id {
			c.ParentID = nil
			m.byID[k] = c
		}
	}
	return nil
}

type memProducts struct {
	byID      map[string]products.Product
	links     map[string][]int64
	vehicles  map[int64]vehicles.Vehicle
	ordered   map[string]bool
	lastQuery catalog.Query
	cats      *memCategories
}

func (m *memProducts) Search(_ context.Context, q catalog.Query) ([]products.Product, error) {
	m.lastQuery = q
	out := make([]products.Product, 0, len(m.byID))
	for _, p := range m.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memProducts) GetByID(_ context.Context, id string) (*products.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, products.ErrNotFound
	}
	return &p, nil
}

func (m *memProducts) PriceOf(_ context.Context, id string) (decimal.Decimal, error) {
	p, ok := m.byID[id]
	if !ok {
		return decimal.Zero, products.ErrNotFound
	}
	return p.Price, nil
}

func (m *memProducts) Create(_ context.Context, p *products.Product) error {
	if _, ok := m.byID[p.ID]; ok {
		return products.ErrDuplicate
	}
	if _, ok := m.cats.byID[p.CategoryID]; !ok {
		return products.ErrUnknownCategory
	}
	p.CreatedAt = time.Now()
	m.byID[p.ID] = *p
	return nil
}

func (m *memProducts) Update(_ context.Context, id string, patch products.Patch) error {
	p, ok := m.byID[id]
	if !ok {
		return products.ErrNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.CategoryID != nil {
		if _, ok := m.cats.byID[*patch.CategoryID]; !ok {
			return products.ErrUnknownCategory
		}
		p.CategoryID = *patch.CategoryID
	}
	if patch.InStock != nil {
		p.InStock = *patch.InStock
	}
	if patch.OriginalPrice.Set {
		p.OriginalPrice = decimal.NullDecimal{}
		if v := patch.OriginalPrice.Value; v != nil {
			p.OriginalPrice = decimal.NewNullDecimal(*v)
		}
	}
	m.byID[id] = p
	return nil
}

func (m *memProducts) SetVehicles(_ context.Context, id string, vehicleIDs []int64) error {
	for _, vid := range vehicleIDs {
		if _, ok := m.vehicles[vid]; !ok {
			return products.ErrUnknownVehicle
		}
	}
	m.links[id] = vehicleIDs
	return nil
}

func (m *memProducts) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return products.ErrNotFound
	}
	if m.ordered[id] {
		return products.ErrInUse
	}
	delete(m.byID, id)
	delete(m.links, id)
	return nil
}

// memVehicles reads compatibility links from the product fake.
type memVehicles struct {
	products *memProducts
}

func (m *memVehicles) Makes(context.Context) ([]string, error) {
	seen := map[string]bool{}
	out := []string{}
	for _, v := range m.products.vehicles {
		if !seen[v.Make] {
			seen[v.Make] = true
			out = append(out, v.Make)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *memVehicles) Models(_ context.Context, carMake string) ([]string, error) {
	seen := map[string]bool{}
	out := []string{}
	for _, v := range m.products.vehicles {
		if v.Make == carMake && !seen[v.Model] {
			seen[v.Model] = true
			out = append(out, v.Model)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *memVehicles) Years(_ context.Context, carMake, model string) ([]int, error) {
	out := []int{}
	for _, v := range m.products.vehicles {
		if v.Make == carMake && v.Model == model {
			out = append(out, v.Year)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out, nil
}

func (m *memVehicles) ForProduct(_ context.Context, productID string) ([]vehicles.Vehicle, error) {
	out := []vehicles.Vehicle{}
	for _, id := range m.products.links[productID] {
		out = append(out, m.products.vehicles[id])
	}
	return out, nil
}

type memAdmins struct {
	byEmail map[string]admins.Admin
}

func (m *memAdmins) GetByEmail(_ context.Context, email string) (*admins.Admin, error) {
	a, ok := m.byEmail[email]
	if !ok {
		return nil, admins.ErrNotFound
	}
	return &a, nil
}

type memUsers struct {
	nextID    int64
	byID      map[int64]users.User
	addresses map[int64][]users.Address
}

func (m *memUsers) Create(_ context.Context, u *users.User) error {
	for _, existing := range m.byID {
		if strings.EqualFold(existing.Email, u.Email) {
			return users.ErrDuplicateEmail
		}
	}
	m.nextID++
	u.ID = m.nextID
	u.CreatedAt = time.Now()
	m.byID[u.ID] = *u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*users.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	return &u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*users.User, error) {
	for _, u := range m.byID {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, users.ErrNotFound
}

func (m *memUsers) UpdateContact(_ context.Context, id int64, firstName, lastName string, phone *string) error {
	u, ok := m.byID[id]
	if !ok {
		return users.ErrNotFound
	}
	u.FirstName, u.LastName, u.Phone = firstName, lastName, phone
	m.byID[id] = u
	return nil
}

func (m *memUsers) Addresses(_ context.Context, userID int64) ([]users.Address, error) {
	return append([]users.Address{}, m.addresses[userID]...), nil
}

func (m *memUsers) UpsertAddress(_ context.Context, a *users.Address) error {
	if a.Type == "" {
		a.Type = users.DefaultAddressType
	}
	list := m.addresses[a.UserID]
	for i := range list {
		if list[i].Type == a.Type {
			a.ID = list[i].ID
			list[i] = *a
			return nil
		}
	}
	a.ID = int64(len(list) + 1)
	m.addresses[a.UserID] = append(list, *a)
	return nil
}

type memOrders struct {
	list  []orders.Order
	items []orders.Item
}

func (m *memOrders) Create(_ context.Context, o *orders.Order) error {
	o.ID = int64(len(m.list) + 1)
	o.Reference = "AS-TEST" + string(rune('A'+len(m.list)))
	o.CreatedAt = time.Now()
	m.list = append(m.list, *o)
	return nil
}

func (m *memOrders) AddItem(_ context.Context, it *orders.Item) error {
	it.ID = int64(len(m.items) + 1)
	m.items = append(m.items, *it)
	return nil
}

func (m *memOrders) ListByUser(_ context.Context, userID int64, limit, offset int) ([]orders.Order, int, error) {
	var mine []orders.Order
	for i := len(m.list) - 1; i >= 0; i-- {
		if o := m.list[i]; o.UserID != nil && *o.UserID == userID {
			mine = append(mine, o)
		}
	}
	total := len(mine)
	if offset >= total {
		return []orders.Order{}, total, nil
	}
	end := min(offset+limit, total)
	return mine[offset:end], total, nil
}

type memDashboard struct {
	overview admindashboard.Overview
}

func (m *memDashboard) GetOverview(context.Context) (*admindashboard.Overview, error) {
	o := m.overview
	return &o, nil
}

// memUnitOfWork hands the same fakes to tx-scoped work.
type memUnitOfWork struct {
	env *testEnv
}

func (u *memUnitOfWork) WithTx(_ context.Context, fn func(tx *storage.Tx) error) error {
	return fn(&storage.Tx{
		Products: u.env.products,
		Users:    u.env.users,
		Orders:   u.env.orders,
	})
}

func (u *memUnitOfWork) WithCheckoutTx(_ context.Context, fn func(tx checkout.Tx) error) error {
	return fn(checkout.Tx{Prices: u.env.products, Orders: u.env.orders})
}

type testEnv struct {
	categories *memCategories
	products   *memProducts
	vehicles   *memVehicles
	admins     *memAdmins
	users      *memUsers
	orders     *memOrders
	dashboard  *memDashboard
	uploadDir  string
}

func newTestApplication(t *testing.T) (*application, *testEnv) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	cats := &memCategories{byID: map[string]categories.Category{}, inUse: map[string]bool{}}
	prods := &memProducts{
		byID:  map[string]products.Product{},
		links: map[string][]int64{},
		vehicles: map[int64]vehicles.Vehicle{
			1: {ID: 1, Make: "Toyota", Model: "Yaris", Year: 2020},
			2: {ID: 2, Make: "Toyota", Model: "Corolla", Year: 2021},
			3: {ID: 3, Make: "Honda", Model: "Civic", Year: 2019},
		},
		ordered: map[string]bool{},
		cats:    cats,
	}

	env := &testEnv{
		categories: cats,
		products:   prods,
		vehicles:   &memVehicles{products: prods},
		admins: &memAdmins{byEmail: map[string]admins.Admin{
			testAdminEmail: {ID: 1, Email: testAdminEmail, PasswordHash: hash},
		}},
		users:     &memUsers{byID: map[int64]users.User{}, addresses: map[int64][]users.Address{}},
		orders:    &memOrders{},
		dashboard: &memDashboard{},
		uploadDir: t.TempDir(),
	}

	imageStore, err := images.NewLocalStore(env.uploadDir, "/images/products")
	require.NoError(t, err)

	logger := zap.NewNop().Sugar()
	uow := &memUnitOfWork{env: env}

	cfg := config{
		env: "test",
		auth: authConfig{
			basic:    basicConfig{user: "ops", pass: "secret"},
			admin:    tokenConfig{secret: "admin-secret", exp: auth.AdminTokenTTL},
			customer: tokenConfig{secret: "customer-secret", exp: auth.CustomerTokenTTL},
			iss:      "autostyle",
		},
		rateLimiter: ratelimiter.Config{RequestsPerTimeFrame: 100, TimeFrame: time.Minute},
	}

	app := &application{
		config: cfg,
		store: &storage.Container{
			Categories: env.categories,
			Products:   env.products,
			Vehicles:   env.vehicles,
			Admins:     env.admins,
			Users:      env.users,
			Orders:     env.orders,
			Dashboard:  env.dashboard,
		},
		uow:          uow,
		checkout:     checkout.NewService(uow, nil, logger),
		images:       imageStore,
		logger:       logger,
		adminAuth:    auth.NewAdminAuthenticator(cfg.auth.admin.secret, cfg.auth.admin.exp, cfg.auth.iss),
		customerAuth: auth.NewCustomerAuthenticator(cfg.auth.customer.secret, cfg.auth.customer.exp, cfg.auth.iss),
		rateLimiter:  ratelimiter.NewFixedWindowLimiter(cfg.rateLimiter.RequestsPerTimeFrame, cfg.rateLimiter.TimeFrame),
	}

	return app, env
}

func executeRequest(req *http.Request, mux http.Handler) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withBearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func adminToken(t *testing.T, app *application) string {
	t.Helper()
	token, err := app.adminAuth.Issue(1, testAdminEmail)
	require.NoError(t, err)
	return token
}

func customerToken(t *testing.T, app *application, id int64) string {
	t.Helper()
	token, err := app.customerAuth.Issue(id, "jane@example.com")
	require.NoError(t, err)
	return token
}

type envelope[T any] struct {
	Status  string `json:"status"`
	Count   int    `json:"count"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return env
}

func seedCategory(env *testEnv, id, name string, parent *string) {
	env.categories.byID[id] = categories.Category{ID: id, Name: name, Slug: id, ParentID: parent}
}

func seedProduct(env *testEnv, id, categoryID, price string) {
	env.products.byID[id] = products.Product{
		ID:         id,
		Name:       "Part " + id,
		Price:      decimal.RequireFromString(price),
		CategoryID: categoryID,
		Images:     []string{},
		InStock:    true,
	}
}

func seedCustomer(t *testing.T, env *testEnv, email, password string) *users.User {
	t.Helper()
	u := &users.User{Email: email, FirstName: "Jane", LastName: "Doe"}
	require.NoError(t, u.Password.Set(password))
	require.NoError(t, env.users.Create(context.Background(), u))
	return u
}

func ptr[T any](v T) *T {
	return &v
}
