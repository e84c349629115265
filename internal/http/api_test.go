package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"content-api/internal/repository/sqlite"
	"content-api/internal/service"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.Open(sqlite.MemoryPath)
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := sqlite.NewStore(db)
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("init store: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	router := gin.New()
	router.Use(RequestLogger(logger))
	NewHandler(
		service.NewArticleService(store, logger),
		service.NewUserService(store, logger),
		logger,
	).RegisterRoutes(router)
	return router
}

func do(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func expectMessage(t *testing.T, rec *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	expectStatus(t, rec, status)
	if got := decode[messageResponse](t, rec).Message; got != message {
		t.Fatalf("expected message %q, got %q", message, got)
	}
}

func createUser(t *testing.T, router *gin.Engine, first, last string, age int) UserResponse {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/api/users", gin.H{
		"firstName": first,
		"lastName":  last,
		"email":     first + "@Example.com",
		"role":      "writer",
		"age":       age,
	})
	expectStatus(t, rec, http.StatusCreated)
	return decode[UserResponse](t, rec)
}

func createArticle(t *testing.T, router *gin.Engine, ownerID, title string) ArticleResponse {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/api/articles", gin.H{
		"title":       title,
		"subtitle":    "Subtitle",
		"description": "Article body",
		"ownerId":     ownerID,
		"category":    "sport",
	})
	expectStatus(t, rec, http.StatusOK)
	return decode[ArticleResponse](t, rec)
}

func TestUserLifecycle(t *testing.T) {
	router := newTestRouter(t)

	user := createUser(t, router, "Jane", "Doe", 30)
	if user.FullName != "Jane Doe" || user.Email != "jane@example.com" || user.NumberOfArticles != 0 {
		t.Fatalf("unexpected created user: %+v", user)
	}

	rec := do(t, router, http.MethodPut, "/api/users/"+user.ID, gin.H{"firstName": "Janet"})
	expectStatus(t, rec, http.StatusOK)
	if got := decode[UserResponse](t, rec); got.FullName != "Janet Doe" {
		t.Fatalf("expected Janet Doe, got %q", got.FullName)
	}

	createUser(t, router, "Young", "Reader", 18)
	rec = do(t, router, http.MethodGet, "/api/users", nil)
	expectStatus(t, rec, http.StatusOK)
	list := decode[[]UserSummaryResponse](t, rec)
	if len(list) != 2 || list[0].Age != 18 || list[1].FullName != "Janet Doe" {
		t.Fatalf("unexpected user list: %+v", list)
	}

	rec = do(t, router, http.MethodDelete, "/api/users/"+user.ID, nil)
	expectMessage(t, rec, http.StatusOK, "User and associated articles deleted successfully")

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		var body any
		if method == http.MethodPut {
			body = gin.H{"age": 40}
		}
		rec = do(t, router, method, "/api/users/"+user.ID, body)
		expectMessage(t, rec, http.StatusNotFound, "User not found")
	}
}

func TestCreateUserValidation(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/users", gin.H{
		"firstName": "Ancient",
		"lastName":  "Person",
		"email":     "old@example.com",
		"role":      "guest",
		"age":       150,
	})
	expectStatus(t, rec, http.StatusBadRequest)
	resp := decode[validationResponse](t, rec)
	if len(resp.Errors) != 1 || resp.Errors[0].Field != "age" {
		t.Fatalf("expected age violation, got %+v", resp)
	}

	rec = do(t, router, http.MethodPost, "/api/users", gin.H{
		"firstName": "Negative",
		"lastName":  "Person",
		"email":     "neg@example.com",
		"role":      "guest",
		"age":       -5,
	})
	expectStatus(t, rec, http.StatusCreated)
	if got := decode[UserResponse](t, rec); got.Age != 1 {
		t.Fatalf("expected coerced age 1, got %d", got.Age)
	}

	rec = do(t, router, http.MethodPost, "/api/users", gin.H{
		"firstName": "Newborn",
		"lastName":  "Person",
		"email":     "zero@example.com",
		"role":      "guest",
		"age":       0,
	})
	expectStatus(t, rec, http.StatusBadRequest)
	resp = decode[validationResponse](t, rec)
	if len(resp.Errors) != 1 || resp.Errors[0].Field != "age" || resp.Errors[0].Rule != "min" {
		t.Fatalf("expected explicit zero age rejected, got %+v", resp)
	}

	rec = do(t, router, http.MethodPost, "/api/users", gin.H{
		"firstName": "Ageless",
		"lastName":  "Person",
		"email":     "ageless@example.com",
		"role":      "guest",
	})
	expectStatus(t, rec, http.StatusCreated)
	if got := decode[UserResponse](t, rec); got.Age != 0 {
		t.Fatalf("expected omitted age stored as 0, got %d", got.Age)
	}
}

func TestGetUserWithArticles(t *testing.T) {
	router := newTestRouter(t)
	owner := createUser(t, router, "Owner", "Person", 33)
	createArticle(t, router, owner.ID, "Weekend match report")

	rec := do(t, router, http.MethodGet, "/api/users/"+owner.ID, nil)
	expectStatus(t, rec, http.StatusOK)
	profile := decode[UserProfileResponse](t, rec)
	if len(profile.Articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(profile.Articles))
	}
	a := profile.Articles[0]
	if a.Title != "Weekend match report" || a.Owner == nil || a.Owner.FullName != "Owner Person" {
		t.Fatalf("unexpected nested article: %+v", a)
	}
}

func TestArticleLifecycle(t *testing.T) {
	router := newTestRouter(t)
	owner := createUser(t, router, "Owner", "Person", 33)
	intruder := createUser(t, router, "Intruder", "Person", 44)

	article := createArticle(t, router, owner.ID, "Championship preview")
	if article.OwnerID != owner.ID {
		t.Fatalf("expected owner %s, got %s", owner.ID, article.OwnerID)
	}

	rec := do(t, router, http.MethodGet, "/api/articles/"+article.ID, nil)
	expectStatus(t, rec, http.StatusOK)
	got := decode[ArticleResponse](t, rec)
	if got.Owner == nil || got.Owner.Email != "owner@example.com" || got.Owner.Age != 33 {
		t.Fatalf("expected joined owner, got %+v", got.Owner)
	}

	update := gin.H{
		"title":       "Championship review",
		"subtitle":    "After the final",
		"description": "What happened",
		"ownerId":     intruder.ID,
		"category":    "history",
	}
	rec = do(t, router, http.MethodPut, "/api/articles/"+article.ID, update)
	expectMessage(t, rec, http.StatusForbidden, "Unauthorized to update this article")

	update["ownerId"] = "missing"
	rec = do(t, router, http.MethodPut, "/api/articles/"+article.ID, update)
	expectMessage(t, rec, http.StatusNotFound, "Owner not found")

	update["ownerId"] = owner.ID
	rec = do(t, router, http.MethodPut, "/api/articles/"+article.ID, update)
	expectStatus(t, rec, http.StatusOK)
	if got := decode[ArticleResponse](t, rec); got.Title != "Championship review" || got.Category != "history" {
		t.Fatalf("unexpected updated article: %+v", got)
	}

	rec = do(t, router, http.MethodDelete, "/api/articles/"+article.ID, gin.H{"ownerId": intruder.ID})
	expectMessage(t, rec, http.StatusForbidden, "Unauthorized to delete this article")

	rec = do(t, router, http.MethodDelete, "/api/articles/"+article.ID, nil)
	expectMessage(t, rec, http.StatusForbidden, "Unauthorized to delete this article")

	rec = do(t, router, http.MethodDelete, "/api/articles/"+article.ID, gin.H{"ownerId": owner.ID})
	expectMessage(t, rec, http.StatusOK, "Article deleted successfully")

	rec = do(t, router, http.MethodGet, "/api/articles/"+article.ID, nil)
	expectMessage(t, rec, http.StatusNotFound, "Article not found")
	rec = do(t, router, http.MethodPut, "/api/articles/"+article.ID, update)
	expectMessage(t, rec, http.StatusNotFound, "Article not found")
	rec = do(t, router, http.MethodDelete, "/api/articles/"+article.ID, gin.H{"ownerId": owner.ID})
	expectMessage(t, rec, http.StatusNotFound, "Article not found")
}

func TestCreateArticleErrors(t *testing.T) {
	router := newTestRouter(t)
	owner := createUser(t, router, "Owner", "Person", 33)

	rec := do(t, router, http.MethodPost, "/api/articles", gin.H{
		"title": "Orphaned piece", "description": "Body", "ownerId": "missing", "category": "sport",
	})
	expectMessage(t, rec, http.StatusNotFound, "Owner not found")

	rec = do(t, router, http.MethodPost, "/api/articles", gin.H{
		"title": "Election night", "description": "Results", "ownerId": owner.ID, "category": "politics",
	})
	expectStatus(t, rec, http.StatusBadRequest)
	if resp := decode[validationResponse](t, rec); len(resp.Errors) != 1 || resp.Errors[0].Field != "category" {
		t.Fatalf("expected category violation, got %+v", resp)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/articles", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	bad := httptest.NewRecorder()
	router.ServeHTTP(bad, req)
	expectStatus(t, bad, http.StatusBadRequest)
}

func TestListArticles(t *testing.T) {
	router := newTestRouter(t)
	owner := createUser(t, router, "Owner", "Person", 33)
	for i := 0; i < 11; i++ {
		createArticle(t, router, owner.ID, "Ordinary article")
	}
	createArticle(t, router, owner.ID, "Sports digest")

	rec := do(t, router, http.MethodGet, "/api/articles", nil)
	expectStatus(t, rec, http.StatusOK)
	page := decode[ArticlePageResponse](t, rec)
	if page.TotalArticles != 12 || page.TotalPages != 2 || page.CurrentPage != 1 || len(page.Articles) != 10 {
		t.Fatalf("unexpected default page: total=%d pages=%d current=%d len=%d",
			page.TotalArticles, page.TotalPages, page.CurrentPage, len(page.Articles))
	}

	rec = do(t, router, http.MethodGet, "/api/articles?page=2&limit=5", nil)
	expectStatus(t, rec, http.StatusOK)
	page = decode[ArticlePageResponse](t, rec)
	if page.CurrentPage != 2 || page.TotalPages != 3 || len(page.Articles) != 5 {
		t.Fatalf("unexpected second page: %+v", page)
	}

	rec = do(t, router, http.MethodGet, "/api/articles?title=SPO", nil)
	expectStatus(t, rec, http.StatusOK)
	page = decode[ArticlePageResponse](t, rec)
	if page.TotalArticles != 1 || len(page.Articles) != 1 || page.Articles[0].Title != "Sports digest" {
		t.Fatalf("unexpected filtered page: %+v", page)
	}

	rec = do(t, router, http.MethodGet, "/api/articles?limit=0", nil)
	expectStatus(t, rec, http.StatusOK)
	page = decode[ArticlePageResponse](t, rec)
	if page.TotalPages != 1 || len(page.Articles) != 12 {
		t.Fatalf("expected zero limit to return every article on one page, got pages=%d len=%d",
			page.TotalPages, len(page.Articles))
	}

	rec = do(t, router, http.MethodGet, "/api/articles?page=922337203685477580&limit=10", nil)
	expectStatus(t, rec, http.StatusOK)
	page = decode[ArticlePageResponse](t, rec)
	if page.CurrentPage != 922337203685477580 || page.TotalPages != 2 || len(page.Articles) != 0 {
		t.Fatalf("expected an empty page past the end, got current=%d pages=%d len=%d",
			page.CurrentPage, page.TotalPages, len(page.Articles))
	}

	rec = do(t, router, http.MethodGet, "/api/articles?page=abc", nil)
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestCreateThenDeleteArticleTracksCounter(t *testing.T) {
	router := newTestRouter(t)
	owner := createUser(t, router, "Owner", "Person", 33)

	count := func() int {
		// an empty update echoes the full record, counter included
		rec := do(t, router, http.MethodPut, "/api/users/"+owner.ID, gin.H{})
		expectStatus(t, rec, http.StatusOK)
		return decode[UserResponse](t, rec).NumberOfArticles
	}

	first := createArticle(t, router, owner.ID, "First article")
	createArticle(t, router, owner.ID, "Second article")
	if got := count(); got != 2 {
		t.Fatalf("expected counter 2, got %d", got)
	}

	rec := do(t, router, http.MethodDelete, "/api/articles/"+first.ID, gin.H{"ownerId": owner.ID})
	expectStatus(t, rec, http.StatusOK)
	if got := count(); got != 1 {
		t.Fatalf("expected counter 1, got %d", got)
	}
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	router := gin.New()
	router.Use(RateLimit(ctx, 1, 2))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 3)
	for i := range codes {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes[i] = rec.Code
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("expected burst of 2 then 429, got %v", codes)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimit(context.Background(), 0, 0))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 20; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
}
