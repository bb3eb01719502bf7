package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/kanban-board-api/internal/database"
	"github.com/yukikurage/kanban-board-api/internal/repository"
	"github.com/yukikurage/kanban-board-api/internal/revalidate"
	"github.com/yukikurage/kanban-board-api/internal/services"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// RoutesTestSuite drives the API through the full router
type RoutesTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

type envelope struct {
	Result  json.RawMessage `json:"result"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
}

// SetupTest runs before each test
func (suite *RoutesTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	suite.Require().NoError(err)

	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	// Run migrations
	suite.Require().NoError(database.Migrate(suite.db))

	orgRepo := repository.NewOrganizationRepository(suite.db)
	boardRepo := repository.NewBoardRepository(suite.db)
	cardRepo := repository.NewCardRepository(suite.db)
	userRepo := repository.NewUserRepository(suite.db)
	auditRepo := repository.NewAuditLogRepository(suite.db)

	revalidator := revalidate.Nop{Logger: zap.NewNop()}
	audit := services.NewAuditRecorder(auditRepo, zap.NewNop())
	ordering := services.NewOrderingService(cardRepo, boardRepo, 0, zap.NewNop())
	orgService := services.NewOrganizationService(orgRepo, auditRepo, audit, revalidator)
	boardService := services.NewBoardService(boardRepo, orgRepo, audit, revalidator)
	cardService := services.NewCardService(cardRepo, boardRepo, ordering, audit, revalidator)
	membershipService := services.NewMembershipService(orgRepo, boardRepo, cardRepo, userRepo, audit, revalidator, zap.NewNop())

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)

	suite.router = gin.New()
	RegisterRoutes(suite.router.Group("/api"), Routes{
		Users:         NewUserHandler(services.NewUserService(userRepo)),
		Organizations: NewOrganizationHandler(orgService, boardService, membershipService),
		Boards:        NewBoardHandler(boardService, membershipService),
		Cards:         NewCardHandler(cardService, membershipService),
	})
}

// TearDownTest runs after each test
func (suite *RoutesTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func TestRoutesTestSuite(t *testing.T) {
	suite.Run(t, new(RoutesTestSuite))
}

// do sends a request and decodes the response envelope
func (suite *RoutesTestSuite) do(method, path string, body interface{}) (int, envelope) {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var env envelope
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

// create posts body and returns the id of the created entity
func (suite *RoutesTestSuite) create(path string, body interface{}) string {
	code, env := suite.do(http.MethodPost, path, body)
	suite.Require().Equal(http.StatusCreated, code, env.Message)

	var out struct {
		ID string `json:"id"`
	}
	suite.Require().NoError(json.Unmarshal(env.Result, &out))
	return out.ID
}

func (suite *RoutesTestSuite) decode(env envelope, v interface{}) {
	suite.Require().NoError(json.Unmarshal(env.Result, v))
}

// Test cases

func (suite *RoutesTestSuite) TestCreateUser_InvalidBody() {
	code, env := suite.do(http.MethodPost, "/api/users", map[string]string{"name": "alice", "email": "not-an-email"})

	suite.Equal(http.StatusBadRequest, code)
	suite.Equal("INVALID_INPUT", env.Code)
}

func (suite *RoutesTestSuite) TestCreateOrganization_DuplicateTitle() {
	suite.create("/api/organizations", map[string]string{"title": "Acme"})

	code, env := suite.do(http.MethodPost, "/api/organizations", map[string]string{"title": "Acme"})
	suite.Equal(http.StatusConflict, code)
	suite.Equal("CONFLICT", env.Code)
}

func (suite *RoutesTestSuite) TestInvalidIdentifierIsRejected() {
	code, env := suite.do(http.MethodGet, "/api/organizations/not-a-uuid", nil)
	suite.Equal(http.StatusBadRequest, code)
	suite.Equal("INVALID_FORMAT", env.Code)

	orgID := suite.create("/api/organizations", map[string]string{"title": "Acme"})
	code, env = suite.do(http.MethodDelete, "/api/organizations/"+orgID+"/members/nobody", nil)
	suite.Equal(http.StatusBadRequest, code)
	suite.Equal("Invalid user_id", env.Message)
}

func (suite *RoutesTestSuite) TestUnknownIdentifierIsNotFound() {
	code, env := suite.do(http.MethodGet, "/api/boards/"+uuid.NewString(), nil)
	suite.Equal(http.StatusNotFound, code)
	suite.Equal("NOT_FOUND", env.Code)

	code, _ = suite.do(http.MethodDelete, "/api/organizations/"+uuid.NewString()+"/members/"+uuid.NewString(), nil)
	suite.Equal(http.StatusNotFound, code)
}

func (suite *RoutesTestSuite) TestCardLifecycle() {
	orgID := suite.create("/api/organizations", map[string]string{"title": "Acme"})
	boardID := suite.create("/api/boards", map[string]string{"title": "Roadmap", "org_id": orgID})
	listID := suite.create("/api/boards/"+boardID+"/lists", map[string]string{"title": "Todo"})

	// Create
	code, env := suite.do(http.MethodPost, "/api/cards", map[string]string{
		"title": "Write docs", "list_id": listID, "board_id": boardID,
	})
	suite.Require().Equal(http.StatusCreated, code)
	var card struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Order int    `json:"order"`
	}
	suite.decode(env, &card)
	suite.Equal(1, card.Order)

	// Update
	code, env = suite.do(http.MethodPatch, "/api/cards/"+card.ID, map[string]string{"title": "Write more docs"})
	suite.Require().Equal(http.StatusOK, code)
	suite.decode(env, &card)
	suite.Equal("Write more docs", card.Title)

	// Copy without a body
	code, env = suite.do(http.MethodPost, "/api/cards/"+card.ID+"/copy", nil)
	suite.Require().Equal(http.StatusCreated, code)
	var cp struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Order int    `json:"order"`
	}
	suite.decode(env, &cp)
	suite.Equal("Write more docs - copy", cp.Title)
	suite.Equal(2, cp.Order)

	// Board view lists both cards in order
	code, env = suite.do(http.MethodGet, "/api/boards/"+boardID, nil)
	suite.Require().Equal(http.StatusOK, code)
	var board struct {
		Lists []struct {
			Cards []struct {
				ID string `json:"id"`
			} `json:"cards"`
		} `json:"lists"`
	}
	suite.decode(env, &board)
	suite.Require().Len(board.Lists, 1)
	suite.Require().Len(board.Lists[0].Cards, 2)
	suite.Equal(card.ID, board.Lists[0].Cards[0].ID)
	suite.Equal(cp.ID, board.Lists[0].Cards[1].ID)

	// Delete twice
	code, _ = suite.do(http.MethodDelete, "/api/cards/"+card.ID+"?board_id="+boardID, nil)
	suite.Equal(http.StatusOK, code)
	code, env = suite.do(http.MethodDelete, "/api/cards/"+card.ID+"?board_id="+boardID, nil)
	suite.Equal(http.StatusNotFound, code)
	suite.Equal("Card not found", env.Message)
}

func (suite *RoutesTestSuite) TestCreateCard_ListNotFound() {
	orgID := suite.create("/api/organizations", map[string]string{"title": "Acme"})
	boardID := suite.create("/api/boards", map[string]string{"title": "Roadmap", "org_id": orgID})

	code, env := suite.do(http.MethodPost, "/api/cards", map[string]string{
		"title": "x", "list_id": uuid.NewString(), "board_id": boardID,
	})
	suite.Equal(http.StatusNotFound, code)
	suite.Equal("List not found", env.Message)
}

func (suite *RoutesTestSuite) TestMembershipFlow() {
	aliceID := suite.create("/api/users", map[string]string{"name": "alice", "email": "alice@example.com"})
	bobID := suite.create("/api/users", map[string]string{"name": "bob", "email": "bob@example.com"})
	orgID := suite.create("/api/organizations", map[string]string{"title": "Acme"})
	boardID := suite.create("/api/boards", map[string]string{"title": "Roadmap", "org_id": orgID})

	// Alice is not in the organization yet
	code, env := suite.do(http.MethodPost, "/api/boards/"+boardID+"/members", map[string]string{"user_id": aliceID})
	suite.Equal(http.StatusBadRequest, code)
	suite.Equal("INVALID_INPUT", env.Code)

	code, env = suite.do(http.MethodPut, "/api/organizations/"+orgID+"/members/"+aliceID, map[string][]string{
		"org_ids":  {orgID},
		"user_ids": {aliceID, bobID},
	})
	suite.Require().Equal(http.StatusOK, code, env.Message)
	var updated struct {
		Organization struct {
			UserIDs []string `json:"user_ids"`
		} `json:"organization"`
	}
	suite.decode(env, &updated)
	suite.ElementsMatch([]string{aliceID, bobID}, updated.Organization.UserIDs)

	code, _ = suite.do(http.MethodPost, "/api/boards/"+boardID+"/members", map[string]string{"user_id": aliceID})
	suite.Equal(http.StatusOK, code)
	code, _ = suite.do(http.MethodPost, "/api/boards/"+boardID+"/members", map[string]string{"user_id": aliceID})
	suite.Equal(http.StatusConflict, code)

	code, env = suite.do(http.MethodGet, "/api/boards/"+boardID+"/non-members", nil)
	suite.Require().Equal(http.StatusOK, code)
	var nonMembers []struct {
		ID string `json:"id"`
	}
	suite.decode(env, &nonMembers)
	suite.Require().Len(nonMembers, 1)
	suite.Equal(bobID, nonMembers[0].ID)

	// Remove alice from the organization
	code, env = suite.do(http.MethodDelete, "/api/organizations/"+orgID+"/members/"+aliceID, nil)
	suite.Require().Equal(http.StatusOK, code)
	var message string
	suite.decode(env, &message)
	suite.Equal(services.MemberRemovedMessage, message)

	code, env = suite.do(http.MethodGet, "/api/users/"+aliceID, nil)
	suite.Require().Equal(http.StatusOK, code)
	var alice struct {
		OrgIDs   []string `json:"org_ids"`
		BoardIDs []string `json:"board_ids"`
	}
	suite.decode(env, &alice)
	suite.Empty(alice.OrgIDs)
	suite.Empty(alice.BoardIDs)
}

func (suite *RoutesTestSuite) TestDeleteBoard_Redirects() {
	orgID := suite.create("/api/organizations", map[string]string{"title": "Acme"})
	boardID := suite.create("/api/boards", map[string]string{"title": "Roadmap", "org_id": orgID})

	code, env := suite.do(http.MethodDelete, "/api/boards/"+boardID+"?org_id="+orgID, nil)
	suite.Require().Equal(http.StatusOK, code)
	var result struct {
		Redirect string `json:"redirect"`
	}
	suite.decode(env, &result)
	suite.Equal("/organizations", result.Redirect)

	code, env = suite.do(http.MethodDelete, "/api/boards/"+boardID, nil)
	suite.Equal(http.StatusNotFound, code)
	suite.Equal("Board not found", env.Message)
}

func (suite *RoutesTestSuite) TestListAuditLogs_Paginates() {
	orgID := suite.create("/api/organizations", map[string]string{"title": "Acme"})
	suite.create("/api/boards", map[string]string{"title": "One", "org_id": orgID})
	suite.create("/api/boards", map[string]string{"title": "Two", "org_id": orgID})

	code, env := suite.do(http.MethodGet, "/api/organizations/"+orgID+"/audit-logs?page=1&limit=2", nil)
	suite.Require().Equal(http.StatusOK, code)

	var page struct {
		Logs []struct {
			EntityType  string `json:"entity_type"`
			Action      string `json:"action"`
			EntityTitle string `json:"entity_title"`
		} `json:"logs"`
		Pagination struct {
			Page  int   `json:"page"`
			Limit int   `json:"limit"`
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	suite.decode(env, &page)
	suite.EqualValues(3, page.Pagination.Total)
	suite.Equal(2, page.Pagination.Limit)
	suite.Require().Len(page.Logs, 2)
	suite.Equal("BOARD", page.Logs[0].EntityType)
	suite.Equal("CREATE", page.Logs[0].Action)
	suite.Equal("Two", page.Logs[0].EntityTitle)
}

func (suite *RoutesTestSuite) TestResponsesCarryMemberIDs() {
	userID := suite.create("/api/users", map[string]string{"name": "alice", "email": "alice@example.com"})
	orgID := suite.create("/api/organizations", map[string]string{"title": "Acme"})
	code, env := suite.do(http.MethodPut, "/api/organizations/"+orgID+"/members/"+userID, map[string][]string{
		"org_ids":  {orgID},
		"user_ids": {userID},
	})
	suite.Require().Equal(http.StatusOK, code, env.Message)

	boardID := suite.create("/api/boards", map[string]string{"title": "Roadmap", "org_id": orgID})
	listID := suite.create("/api/boards/"+boardID+"/lists", map[string]string{"title": "Todo"})
	cardID := suite.create("/api/cards", map[string]string{"title": "c1", "list_id": listID, "board_id": boardID})

	code, _ = suite.do(http.MethodPost, "/api/boards/"+boardID+"/members", map[string]string{"user_id": userID})
	suite.Require().Equal(http.StatusOK, code)
	code, _ = suite.do(http.MethodPost, "/api/cards/"+cardID+"/members", map[string]string{"user_id": userID})
	suite.Require().Equal(http.StatusOK, code)

	type withUsers struct {
		UserIDs []string `json:"user_ids"`
	}

	// listOrganizations
	code, env = suite.do(http.MethodGet, "/api/organizations", nil)
	suite.Require().Equal(http.StatusOK, code)
	var orgs []withUsers
	suite.decode(env, &orgs)
	suite.Require().Len(orgs, 1)
	suite.Equal([]string{userID}, orgs[0].UserIDs)

	// listBoards
	code, env = suite.do(http.MethodGet, "/api/organizations/"+orgID+"/boards", nil)
	suite.Require().Equal(http.StatusOK, code)
	var boards []withUsers
	suite.decode(env, &boards)
	suite.Require().Len(boards, 1)
	suite.Equal([]string{userID}, boards[0].UserIDs)

	// getBoard
	code, env = suite.do(http.MethodGet, "/api/boards/"+boardID, nil)
	suite.Require().Equal(http.StatusOK, code)
	var board struct {
		UserIDs []string `json:"user_ids"`
		Lists   []struct {
			Cards []withUsers `json:"cards"`
		} `json:"lists"`
	}
	suite.decode(env, &board)
	suite.Equal([]string{userID}, board.UserIDs)
	suite.Require().Len(board.Lists, 1)
	suite.Require().Len(board.Lists[0].Cards, 1)
	suite.Equal([]string{userID}, board.Lists[0].Cards[0].UserIDs)

	// updateCard
	code, env = suite.do(http.MethodPatch, "/api/cards/"+cardID, map[string]string{"title": "renamed"})
	suite.Require().Equal(http.StatusOK, code)
	var updated withUsers
	suite.decode(env, &updated)
	suite.Equal([]string{userID}, updated.UserIDs)

	// CardDelete returns the snapshot taken before the membership rows are removed
	code, env = suite.do(http.MethodDelete, "/api/cards/"+cardID, nil)
	suite.Require().Equal(http.StatusOK, code)
	var deleted withUsers
	suite.decode(env, &deleted)
	suite.Equal([]string{userID}, deleted.UserIDs)
}

func (suite *RoutesTestSuite) TestUpdateCard_NullClearsDescription() {
	orgID := suite.create("/api/organizations", map[string]string{"title": "Acme"})
	boardID := suite.create("/api/boards", map[string]string{"title": "Roadmap", "org_id": orgID})
	listID := suite.create("/api/boards/"+boardID+"/lists", map[string]string{"title": "Todo"})
	cardID := suite.create("/api/cards", map[string]string{"title": "c1", "list_id": listID, "board_id": boardID})

	type card struct {
		Title       string  `json:"title"`
		Description *string `json:"description"`
	}

	code, env := suite.do(http.MethodPatch, "/api/cards/"+cardID, map[string]string{"description": "details"})
	suite.Require().Equal(http.StatusOK, code)
	var got card
	suite.decode(env, &got)
	suite.Require().NotNil(got.Description)
	suite.Equal("details", *got.Description)

	// An omitted description is left untouched
	code, env = suite.do(http.MethodPatch, "/api/cards/"+cardID, map[string]string{"title": "renamed"})
	suite.Require().Equal(http.StatusOK, code)
	got = card{}
	suite.decode(env, &got)
	suite.Require().NotNil(got.Description)
	suite.Equal("details", *got.Description)

	code, env = suite.do(http.MethodPatch, "/api/cards/"+cardID, map[string]interface{}{"description": nil})
	suite.Require().Equal(http.StatusOK, code)
	got = card{}
	suite.decode(env, &got)
	suite.Nil(got.Description)
	suite.Equal("renamed", got.Title)

	code, _ = suite.do(http.MethodPatch, "/api/cards/"+cardID, map[string]interface{}{"description": 42})
	suite.Equal(http.StatusBadRequest, code)
}

func (suite *RoutesTestSuite) TestNextOrder() {
	orgID := suite.create("/api/organizations", map[string]string{"title": "Acme"})
	boardID := suite.create("/api/boards", map[string]string{"title": "Roadmap", "org_id": orgID})
	listID := suite.create("/api/boards/"+boardID+"/lists", map[string]string{"title": "Todo"})

	var next struct {
		ListID string `json:"list_id"`
		Order  int    `json:"order"`
	}
	code, env := suite.do(http.MethodGet, "/api/lists/"+listID+"/next-order", nil)
	suite.Require().Equal(http.StatusOK, code)
	suite.decode(env, &next)
	suite.Equal(listID, next.ListID)
	suite.Equal(1, next.Order)

	suite.create("/api/cards", map[string]string{"title": "c1", "list_id": listID, "board_id": boardID})

	code, env = suite.do(http.MethodGet, "/api/lists/"+listID+"/next-order", nil)
	suite.Require().Equal(http.StatusOK, code)
	suite.decode(env, &next)
	suite.Equal(2, next.Order)

	code, env = suite.do(http.MethodGet, "/api/lists/"+uuid.NewString()+"/next-order", nil)
	suite.Equal(http.StatusNotFound, code)
	suite.Equal("List not found", env.Message)
}
