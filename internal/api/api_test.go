package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/roster-api/internal/api"
	"github.com/roster-api/internal/config"
	"github.com/roster-api/internal/mocks"
	"github.com/roster-api/internal/models"
	"github.com/roster-api/internal/repository"
	"github.com/roster-api/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHealth struct{ err error }

func (f fakeHealth) HealthCheck(ctx context.Context) error { return f.err }

type testEnv struct {
	router *gin.Engine
	repo   *mocks.MockEmployeeRepository
	svc    *service.Services
	cfg    *config.Config
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.App.Env = "test"
	cfg.Web.StaticDir = t.TempDir()
	require.NoError(t, cfg.Validate())
	return cfg
}

// setupTestRouter wires the real services over an in-memory repository
func setupTestRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := mocks.NewMockEmployeeRepository()
	cfg := testConfig(t)
	svc := service.NewServices(&repository.Repositories{Employee: repo}, cfg, zerolog.Nop())

	router, err := api.NewRouter(svc, fakeHealth{}, cfg, zerolog.Nop())
	require.NoError(t, err)

	return &testEnv{router: router, repo: repo, svc: svc, cfg: cfg}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func uploadRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/importar_ods", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func flashCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == "roster_flash" {
			return c
		}
	}
	return nil
}

func sampleRoster() []*models.Employee {
	return []*models.Employee{
		{Name: "Ana Souza", Role: "Cozinheira", WorkSite: "Centro", ContractType: "INTERMITENT",
			ExamStatus: models.StatusOK, ContractStatus: models.StatusOK, DailyRate: 120},
		{Name: "Bruno Lima", Role: "Garçom", WorkSite: "Praia", ContractType: "CLT",
			ExamStatus: models.StatusPending, ContractStatus: models.StatusOK, DailyRate: 95.5},
		{Name: "Carla Dias", Role: "Copeira", WorkSite: "Centro", ContractType: "INTERMITENT",
			ExamStatus: models.StatusOK, ContractStatus: models.StatusPending, DailyRate: 0},
	}
}

func TestHealthEndpoint(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	if response["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", response["status"])
	}
	if response["service"] != "roster-api" {
		t.Errorf("Expected service name, got %v", response["service"])
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("Expected a request id header")
	}
}

func TestHealthEndpointDatabaseDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig(t)
	svc := &service.Services{Roster: &mocks.MockRosterService{}}

	router, err := api.NewRouter(svc, fakeHealth{err: errors.New("connection refused")}, cfg, zerolog.Nop())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", w.Code)
	}
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestRequestIDIsPropagated(t *testing.T) {
	env := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := env.do(req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	env := setupTestRouter(t)
	env.repo.Seed(sampleRoster()...)

	w := env.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response struct {
		Roster models.RosterStats `json:"roster"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Equal(t, 3, response.Roster.Total)
	assert.Equal(t, 1, response.Roster.ExamPending)
	assert.Equal(t, 1, response.Roster.ContractPending)
	assert.Equal(t, 2, response.Roster.HasPending)
	assert.InDelta(t, 215.5, response.Roster.DailyRateSum, 0.001)
}

func TestIndexListsEveryone(t *testing.T) {
	env := setupTestRouter(t)
	env.repo.Seed(sampleRoster()...)

	w := env.do(httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, name := range []string{"Ana Souza", "Bruno Lima", "Carla Dias"} {
		assert.Contains(t, body, name)
	}
	assert.Contains(t, body, "R$ 95,50")
	assert.Contains(t, body, `hx-post="/func/1/toggle_exame"`)
}

func TestIndexSearchAndFilter(t *testing.T) {
	env := setupTestRouter(t)
	env.repo.Seed(sampleRoster()...)

	tests := []struct {
		name    string
		query   string
		present []string
		absent  []string
	}{
		{
			name:    "term matches work site",
			query:   "?q=centro",
			present: []string{"Ana Souza", "Carla Dias"},
			absent:  []string{"Bruno Lima"},
		},
		{
			name:    "exam pending",
			query:   "?filtro=exame_pendente",
			present: []string{"Bruno Lima"},
			absent:  []string{"Ana Souza", "Carla Dias"},
		},
		{
			name:    "any pending combined with term",
			query:   "?filtro=pendencias&q=copeira",
			present: []string{"Carla Dias"},
			absent:  []string{"Ana Souza", "Bruno Lima"},
		},
		{
			name:    "unknown filter shows all",
			query:   "?filtro=bogus",
			present: []string{"Ana Souza", "Bruno Lima", "Carla Dias"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(httptest.NewRequest(http.MethodGet, "/"+tt.query, nil))
			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}
			for _, name := range tt.present {
				assert.Contains(t, w.Body.String(), name)
			}
			for _, name := range tt.absent {
				assert.NotContains(t, w.Body.String(), name)
			}
		})
	}
}

func TestIndexEmptyRoster(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	assert.Contains(t, w.Body.String(), "Nenhum colaborador encontrado.")
}

func TestToggleExamReturnsCard(t *testing.T) {
	env := setupTestRouter(t)
	env.repo.Seed(sampleRoster()...)

	w := env.do(postForm("/func/2/toggle_exame", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	assert.Contains(t, body, `id="func-2"`)
	assert.Contains(t, body, "Exame: OK")
	assert.NotContains(t, body, "<html")

	stored, _ := env.repo.GetByID(context.Background(), 2)
	assert.Equal(t, models.StatusOK, stored.ExamStatus)
}

func TestToggleContractTwiceRestores(t *testing.T) {
	env := setupTestRouter(t)
	env.repo.Seed(sampleRoster()...)

	env.do(postForm("/func/1/toggle_contrato", nil))
	stored, _ := env.repo.GetByID(context.Background(), 1)
	assert.Equal(t, models.StatusPending, stored.ContractStatus)

	w := env.do(postForm("/func/1/toggle_contrato", nil))
	assert.Contains(t, w.Body.String(), "Contrato: OK")
	stored, _ = env.repo.GetByID(context.Background(), 1)
	assert.Equal(t, models.StatusOK, stored.ContractStatus)
}

func TestMutationsOnUnknownEmployee(t *testing.T) {
	env := setupTestRouter(t)
	env.repo.Seed(sampleRoster()...)

	paths := []string{
		"/func/99/toggle_exame",
		"/func/99/toggle_contrato",
		"/func/99/ajusta_diaria",
		"/func/abc/toggle_exame",
		"/func/0/toggle_contrato",
		"/func/-1/ajusta_diaria",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			w := env.do(postForm(path, url.Values{"delta": {"5"}}))
			if w.Code != http.StatusNotFound {
				t.Errorf("Expected status 404, got %d", w.Code)
			}
			if w.Body.Len() != 0 {
				t.Errorf("Expected empty body, got %q", w.Body.String())
			}
		})
	}
}

func TestAdjustRate(t *testing.T) {
	env := setupTestRouter(t)
	env.repo.Seed(sampleRoster()...)

	tests := []struct {
		name     string
		id       int64
		delta    string
		expected float64
		display  string
	}{
		{name: "increase", id: 1, delta: "10", expected: 130, display: "R$ 130,00"},
		{name: "decrease", id: 1, delta: "-5", expected: 125, display: "R$ 125,00"},
		{name: "comma decimal", id: 2, delta: "0,25", expected: 95.75, display: "R$ 95,75"},
		{name: "clamped at zero", id: 3, delta: "-10", expected: 0, display: "R$ 0,00"},
		{name: "absent delta", id: 2, delta: "", expected: 95.75, display: "R$ 95,75"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(postForm(fmt.Sprintf("/func/%d/ajusta_diaria", tt.id), url.Values{"delta": {tt.delta}}))
			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}
			assert.Contains(t, w.Body.String(), tt.display)

			stored, _ := env.repo.GetByID(context.Background(), tt.id)
			assert.InDelta(t, tt.expected, stored.DailyRate, 0.001)
		})
	}
}

func TestAdjustRateBadDelta(t *testing.T) {
	env := setupTestRouter(t)
	env.repo.Seed(sampleRoster()...)

	for _, delta := range []string{"abc", "NaN", "1e400", "1e308"} {
		w := env.do(postForm("/func/1/ajusta_diaria", url.Values{"delta": {delta}}))
		if w.Code != http.StatusBadRequest {
			t.Errorf("delta %q: expected status 400, got %d", delta, w.Code)
		}
	}

	stored, _ := env.repo.GetByID(context.Background(), 1)
	assert.InDelta(t, 120, stored.DailyRate, 0.001)
}

func TestCreateEmployeeFlashRoundTrip(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(postForm("/func/novo", url.Values{
		"nome":          {"  Diego Alves "},
		"funcao":        {"Cumim"},
		"tipo_contrato": {""},
		"valor_diaria":  {"80,5"},
	}))

	if w.Code != http.StatusSeeOther {
		t.Fatalf("Expected status 303, got %d", w.Code)
	}
	assert.Equal(t, "/", w.Header().Get("Location"))

	cookie := flashCookie(w)
	require.NotNil(t, cookie, "expected a flash cookie")
	assert.True(t, cookie.HttpOnly)

	all, _ := env.repo.List(context.Background())
	require.Len(t, all, 1)
	assert.Equal(t, "Diego Alves", all[0].Name)
	assert.Equal(t, models.DefaultContractType, all[0].ContractType)
	assert.Equal(t, models.StatusPending, all[0].ExamStatus)
	assert.Equal(t, models.StatusPending, all[0].ContractStatus)
	assert.InDelta(t, 80.5, all[0].DailyRate, 0.001)

	// The next page shows the message once and clears the cookie
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	page := env.do(req)

	assert.Contains(t, page.Body.String(), "Colaborador adicionado.")
	cleared := flashCookie(page)
	require.NotNil(t, cleared)
	assert.True(t, cleared.MaxAge < 0)

	again := env.do(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotContains(t, again.Body.String(), "Colaborador adicionado.")
}

func TestTamperedFlashIsIgnored(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(postForm("/func/novo", url.Values{"nome": {"Eva"}}))
	cookie := flashCookie(w)
	require.NotNil(t, cookie)

	cookie.Value = "x" + cookie.Value
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	page := env.do(req)

	if page.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", page.Code)
	}
	assert.NotContains(t, page.Body.String(), "Colaborador adicionado.")
}

func TestImportForm(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/admin/importar_ods", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	assert.Contains(t, body, `name="arquivo"`)
	assert.Contains(t, body, "VALOR DA DIARIA")
	assert.Contains(t, body, ".ods,.xlsx")
}

func TestImportUpload(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		location string
		message  string
	}{
		{
			name:     "success",
			location: "/",
			message:  "Importação concluída.",
		},
		{
			name:     "rejected",
			err:      fmt.Errorf("%w: extension .pdf", service.ErrImportRejected),
			location: "/admin/importar_ods",
			message:  "Envie um arquivo .ods ou .xlsx válido.",
		},
		{
			name:     "failure",
			err:      errors.New("zip: not a valid zip file"),
			location: "/",
			message:  "Erro ao importar: zip: not a valid zip file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			cfg := testConfig(t)
			mockImport := &mocks.MockImportService{
				ImportFunc: func(ctx context.Context, filename string, r io.ReaderAt, size int64) (*models.ImportReport, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return &models.ImportReport{Source: filename, Imported: 2}, nil
				},
			}
			svc := &service.Services{Roster: &mocks.MockRosterService{}, Import: mockImport}
			router, err := api.NewRouter(svc, nil, cfg, zerolog.Nop())
			require.NoError(t, err)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, uploadRequest(t, "arquivo", "equipe.ods", []byte("PK...")))

			if w.Code != http.StatusSeeOther {
				t.Fatalf("Expected status 303, got %d", w.Code)
			}
			assert.Equal(t, tt.location, w.Header().Get("Location"))
			assert.Equal(t, []string{"equipe.ods"}, mockImport.Uploads)

			cookie := flashCookie(w)
			require.NotNil(t, cookie)

			req := httptest.NewRequest(http.MethodGet, tt.location, nil)
			req.AddCookie(cookie)
			page := httptest.NewRecorder()
			router.ServeHTTP(page, req)
			assert.Contains(t, page.Body.String(), tt.message)
		})
	}
}

func TestImportUploadLongErrorFitsCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig(t)
	detail := strings.Repeat("coluna inválida ", 700)
	mockImport := &mocks.MockImportService{
		ImportFunc: func(ctx context.Context, filename string, r io.ReaderAt, size int64) (*models.ImportReport, error) {
			return nil, errors.New(detail)
		},
	}
	svc := &service.Services{Roster: &mocks.MockRosterService{}, Import: mockImport}
	router, err := api.NewRouter(svc, nil, cfg, zerolog.Nop())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "arquivo", "equipe.ods", []byte("PK...")))

	cookie := flashCookie(w)
	require.NotNil(t, cookie)
	if len(cookie.String()) >= 4096 {
		t.Fatalf("Expected flash cookie under 4096 bytes, got %d", len(cookie.String()))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	page := httptest.NewRecorder()
	router.ServeHTTP(page, req)
	assert.Contains(t, page.Body.String(), "Erro ao importar: coluna inválida")
	assert.Contains(t, page.Body.String(), "…")
	assert.NotContains(t, page.Body.String(), detail)
}

func TestImportUploadWithoutFile(t *testing.T) {
	env := setupTestRouter(t)
	env.repo.Seed(sampleRoster()...)

	w := env.do(uploadRequest(t, "outro", "equipe.ods", []byte("x")))

	if w.Code != http.StatusSeeOther {
		t.Fatalf("Expected status 303, got %d", w.Code)
	}
	assert.Equal(t, "/admin/importar_ods", w.Header().Get("Location"))
	assert.Equal(t, 0, env.repo.ReplaceCalls)
}

func TestImportUploadWrongExtensionKeepsRoster(t *testing.T) {
	env := setupTestRouter(t)
	env.repo.Seed(sampleRoster()...)

	w := env.do(uploadRequest(t, "arquivo", "equipe.pdf", []byte("%PDF-1.4")))

	if w.Code != http.StatusSeeOther {
		t.Fatalf("Expected status 303, got %d", w.Code)
	}
	assert.Equal(t, "/admin/importar_ods", w.Header().Get("Location"))
	assert.Equal(t, 0, env.repo.ReplaceCalls)

	count, _ := env.repo.Count(context.Background())
	assert.Equal(t, 3, count)
}

func TestExportCSV(t *testing.T) {
	env := setupTestRouter(t)
	env.repo.Seed(sampleRoster()...)

	w := env.do(httptest.NewRequest(http.MethodGet, "/admin/exportar", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=roster-")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "NOME")
	assert.Contains(t, lines[2], "Bruno Lima")
	assert.Contains(t, lines[2], "95.50")
}

func TestExportNDJSON(t *testing.T) {
	env := setupTestRouter(t)
	env.repo.Seed(sampleRoster()...)

	w := env.do(httptest.NewRequest(http.MethodGet, "/admin/exportar?format=ndjson", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 3)

	var first models.Employee
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "Ana Souza", first.Name)
}

func TestExportUnknownFormat(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/admin/exportar?format=pdf", nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}
