package testutil

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"nagoyameshi/internal/billing"
	"nagoyameshi/internal/config"
	"nagoyameshi/internal/database"
	"nagoyameshi/internal/handlers"
	"nagoyameshi/internal/models"
	"nagoyameshi/internal/repositories"
	"nagoyameshi/internal/routes"
	"nagoyameshi/internal/services"
	"nagoyameshi/internal/storage"
)

// 初期データのアカウント
const (
	FreeUserEmail    = "free_user@example.com"
	PremiumUserEmail = "premium_user@example.com"
	UserPassword     = "password123"
	AdminEmail       = "admin@example.com"
	AdminPassword    = "adminpass"
)

// TestEnv はテスト1件分のDBとルーター、外部サービスの代役です。
type TestEnv struct {
	DB          *sqlx.DB
	Router      *gin.Engine
	Config      *config.Config
	Billing     *FakeBilling
	Mailer      *FakeMailer
	Images      *storage.MemoryStore
	FreeUser    *models.User
	PremiumUser *models.User
	Admin       *models.Admin
}

// TestConfig はテスト用の設定値です。
func TestConfig() *config.Config {
	return &config.Config{
		Port:                 "8080",
		DBDriver:             "sqlite3",
		MemberJWTSecret:      "test-member-secret",
		AdminJWTSecret:       "test-admin-secret",
		FrontendURL:          "http://localhost:3000",
		CORSOrigins:          []string{"http://localhost:3000"},
		StripePremiumPriceID: "price_test_premium",
		PremiumMonthlyFee:    300,
	}
}

// SetupTestDB はテストごとに独立したインメモリ SQLite を作成し、スキーマと初期データを投入します。
func SetupTestDB(t *testing.T) *TestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := sqlx.Open("sqlite3", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))

	ctx := context.Background()
	userRepo := repositories.NewUserRepository(db)
	env := &TestEnv{
		DB:      db,
		Config:  TestConfig(),
		Billing: NewFakeBilling(),
		Mailer:  &FakeMailer{},
		Images:  storage.NewMemoryStore(),
	}
	env.FreeUser = CreateTestUser(t, db, "Free Member", FreeUserEmail, UserPassword)
	env.PremiumUser = CreateTestUser(t, db, "Premium Member", PremiumUserEmail, UserPassword)
	require.NoError(t, userRepo.SetStripeID(ctx, env.PremiumUser.ID, "cus_seed_premium"))
	price := env.Config.StripePremiumPriceID
	require.NoError(t, repositories.NewSubscriptionRepository(db).Create(ctx, &models.Subscription{
		UserID:       env.PremiumUser.ID,
		Name:         services.PremiumPlan,
		StripeID:     "sub_seed_premium",
		StripeStatus: "active",
		StripePrice:  &price,
	}))

	hash, err := repositories.HashPassword(AdminPassword)
	require.NoError(t, err)
	env.Admin, err = repositories.NewAdminRepository(db).Create(ctx, &models.Admin{Email: AdminEmail, PasswordHash: hash})
	require.NoError(t, err)

	env.Router = routes.SetupRouter(db, env.Config, env.Billing, env.Images, env.Mailer)
	return env
}

func CreateTestUser(t *testing.T, db *sqlx.DB, name, email, password string) *models.User {
	t.Helper()
	hash, err := repositories.HashPassword(password)
	require.NoError(t, err)

	created, err := repositories.NewUserRepository(db).Create(context.Background(), &models.User{
		Name:         name,
		Kana:         "テスト",
		Email:        email,
		PasswordHash: hash,
		PostalCode:   "4600001",
		Address:      "Nagoya, Naka-ku 1-1",
		PhoneNumber:  "0520000000",
	})
	require.NoError(t, err)
	require.NotEqual(t, 0, created.ID)
	return created
}

func CreateTestCategory(t *testing.T, db *sqlx.DB, name string) *models.Category {
	t.Helper()
	category, err := repositories.NewCategoryRepository(db).Create(context.Background(), name)
	require.NoError(t, err)
	return category
}

// CreateTestRestaurant は価格帯とカテゴリを指定して店舗を作成します。
func CreateTestRestaurant(t *testing.T, db *sqlx.DB, name string, lowest, highest int, categoryIDs ...int) *models.Restaurant {
	t.Helper()
	restaurant, err := repositories.NewRestaurantRepository(db).Create(context.Background(), &models.Restaurant{
		Name:            name,
		Description:     name + " description",
		LowestPrice:     lowest,
		HighestPrice:    highest,
		PostalCode:      "4600002",
		Address:         "Nagoya, Naka-ku 2-2",
		OpeningTime:     "11:00",
		ClosingTime:     "22:00",
		SeatingCapacity: 30,
	}, categoryIDs, nil)
	require.NoError(t, err)
	return restaurant
}

func CreateTestReview(t *testing.T, db *sqlx.DB, userID, restaurantID, score int, content string) *models.Review {
	t.Helper()
	review, err := repositories.NewReviewRepository(db).Create(context.Background(), &models.Review{
		Score:        score,
		Content:      content,
		RestaurantID: restaurantID,
		UserID:       userID,
	})
	require.NoError(t, err)
	return review
}

// PerformRequest はフォーム送信 (form が nil なら本文なし) を行います。cookies はトークン等を渡します。
func PerformRequest(r *gin.Engine, method, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func MemberCookie(token string) *http.Cookie {
	return &http.Cookie{Name: handlers.MemberTokenCookie, Value: token}
}

func AdminCookie(token string) *http.Cookie {
	return &http.Cookie{Name: handlers.AdminTokenCookie, Value: token}
}

// CookieValue はレスポンスが設定した Cookie の値 (URLデコード済み) を返します。
func CookieValue(w *httptest.ResponseRecorder, name string) string {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			v, err := url.QueryUnescape(c.Value)
			if err != nil {
				return c.Value
			}
			return v
		}
	}
	return ""
}

func LoginAndGetToken(t *testing.T, router *gin.Engine, email, password string) (string, error) {
	t.Helper()
	w := PerformRequest(router, http.MethodPost, "/login", url.Values{"email": {email}, "password": {password}})
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
		return "", fmt.Errorf("login failed with status %d (%s): %s", w.Code, w.Header().Get("Location"), CookieValue(w, handlers.ErrorCookie))
	}
	token := CookieValue(w, handlers.MemberTokenCookie)
	if token == "" {
		return "", fmt.Errorf("member token cookie not found in login response")
	}
	return token, nil
}

func AdminLoginAndGetToken(t *testing.T, router *gin.Engine, email, password string) (string, error) {
	t.Helper()
	w := PerformRequest(router, http.MethodPost, "/admin/login", url.Values{"email": {email}, "password": {password}})
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/admin/home" {
		return "", fmt.Errorf("admin login failed with status %d (%s): %s", w.Code, w.Header().Get("Location"), CookieValue(w, handlers.ErrorCookie))
	}
	token := CookieValue(w, handlers.AdminTokenCookie)
	if token == "" {
		return "", fmt.Errorf("admin token cookie not found in login response")
	}
	return token, nil
}

// FakeBilling は課金プロバイダの代役です。呼び出し内容を記録します。
type FakeBilling struct {
	mu             sync.Mutex
	seq            int
	Customers      []string
	Subscribed     []string
	Canceled       []string
	PaymentMethods map[string]string
	FailSubscribe  error

	// SubscribeStatus は Subscribe が返す状態です。空なら active です。
	SubscribeStatus string
}

var _ billing.Provider = (*FakeBilling)(nil)

func NewFakeBilling() *FakeBilling {
	return &FakeBilling{PaymentMethods: map[string]string{}}
}

func (f *FakeBilling) next(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s_test_%d", prefix, f.seq)
}

func (f *FakeBilling) CreateCustomer(ctx context.Context, email, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.next("cus")
	f.Customers = append(f.Customers, email)
	return id, nil
}

func (f *FakeBilling) CreateSetupIntent(ctx context.Context, customerID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.next("seti") + "_secret", nil
}

func (f *FakeBilling) Subscribe(ctx context.Context, customerID, priceID, paymentMethodID string) (*billing.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailSubscribe != nil {
		return nil, f.FailSubscribe
	}
	f.Subscribed = append(f.Subscribed, customerID)
	f.PaymentMethods[customerID] = paymentMethodID
	status := f.SubscribeStatus
	if status == "" {
		status = "active"
	}
	return &billing.Subscription{ID: f.next("sub"), Status: status}, nil
}

func (f *FakeBilling) UpdateDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.PaymentMethods[customerID] = paymentMethodID
	return nil
}

func (f *FakeBilling) Cancel(ctx context.Context, subscriptionID string) (*billing.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Canceled = append(f.Canceled, subscriptionID)
	return &billing.Subscription{ID: subscriptionID, Status: "canceled"}, nil
}

// FakeMailer は送信したリセットURLを保持します。
type FakeMailer struct {
	mu   sync.Mutex
	Sent map[string]string
}

func (m *FakeMailer) SendPasswordReset(to, resetURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Sent == nil {
		m.Sent = map[string]string{}
	}
	m.Sent[to] = resetURL
	return nil
}

// LastResetURL は to 宛に最後に送ったURLです。
func (m *FakeMailer) LastResetURL(to string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Sent[to]
}
