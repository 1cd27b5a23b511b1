package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "grana/internal/errors"
	"grana/internal/finance"
	"grana/internal/models"
	"grana/internal/services"
)

type mockGoalService struct {
	createGoalFn        func(userID, name string, category models.GoalCategory, targetAmount int64, deadline time.Time, description string) (*models.Goal, error)
	getUserGoalsFn      func(userID string) ([]finance.GoalWithStatus, error)
	getGoalByIDFn       func(userID, goalID string) (*finance.GoalWithStatus, error)
	updateGoalFn        func(userID, goalID, name string, targetAmount, currentAmount *int64, deadline *time.Time, description string) (*models.Goal, error)
	deleteGoalFn        func(userID, goalID string) error
	allocateFn          func(ctx context.Context, userID, goalID string, amount int64) (*services.AllocationResult, error)
	removeAllocationsFn func(userID, goalID string) error
}

func (m *mockGoalService) CreateGoal(userID, name string, category models.GoalCategory, targetAmount int64, deadline time.Time, description string) (*models.Goal, error) {
	if m.createGoalFn != nil {
		return m.createGoalFn(userID, name, category, targetAmount, deadline, description)
	}
	return &models.Goal{}, nil
}

func (m *mockGoalService) GetUserGoals(userID string) ([]finance.GoalWithStatus, error) {
	if m.getUserGoalsFn != nil {
		return m.getUserGoalsFn(userID)
	}
	return nil, nil
}

func (m *mockGoalService) GetGoalByID(userID, goalID string) (*finance.GoalWithStatus, error) {
	if m.getGoalByIDFn != nil {
		return m.getGoalByIDFn(userID, goalID)
	}
	return &finance.GoalWithStatus{}, nil
}

func (m *mockGoalService) UpdateGoal(userID, goalID, name string, targetAmount, currentAmount *int64, deadline *time.Time, description string) (*models.Goal, error) {
	if m.updateGoalFn != nil {
		return m.updateGoalFn(userID, goalID, name, targetAmount, currentAmount, deadline, description)
	}
	return &models.Goal{}, nil
}

func (m *mockGoalService) DeleteGoal(userID, goalID string) error {
	if m.deleteGoalFn != nil {
		return m.deleteGoalFn(userID, goalID)
	}
	return nil
}

func (m *mockGoalService) Allocate(ctx context.Context, userID, goalID string, amount int64) (*services.AllocationResult, error) {
	if m.allocateFn != nil {
		return m.allocateFn(ctx, userID, goalID, amount)
	}
	return &services.AllocationResult{}, nil
}

func (m *mockGoalService) RemoveAllocations(userID, goalID string) error {
	if m.removeAllocationsFn != nil {
		return m.removeAllocationsFn(userID, goalID)
	}
	return nil
}

const testGoalID = "0189b6f0-0000-7000-8000-000000000002"

func setupGoalRouter(handler *GoalHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/goals", handler.CreateGoal)
	auth.GET("/goals", handler.ListGoals)
	auth.GET("/goals/:id", handler.GetGoal)
	auth.POST("/goals/:id/allocate", handler.Allocate)
	auth.DELETE("/goals/:id/allocations", handler.RemoveAllocations)
	return r
}

func TestGoalHandler_CreateGoal(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		goalSvc := &mockGoalService{
			createGoalFn: func(userID, name string, category models.GoalCategory, targetAmount int64, deadline time.Time, _ string) (*models.Goal, error) {
				return &models.Goal{
					Base:         models.Base{ID: testGoalID},
					UserID:       userID,
					Name:         name,
					Category:     category,
					TargetAmount: targetAmount,
					Deadline:     deadline,
				}, nil
			},
		}
		handler := NewGoalHandler(goalSvc)
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals",
			`{"name":"Viagem","category":"viagem","target_amount":1200000,"deadline":"2027-06-01T00:00:00Z"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		goal := result["goal"].(map[string]interface{})
		if goal["name"] != "Viagem" {
			t.Errorf("expected name Viagem, got %v", goal["name"])
		}
	})

	t.Run("returns 400 on unknown category", func(t *testing.T) {
		handler := NewGoalHandler(&mockGoalService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals",
			`{"name":"Viagem","category":"iate","target_amount":1200000,"deadline":"2027-06-01T00:00:00Z"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on non-positive target", func(t *testing.T) {
		handler := NewGoalHandler(&mockGoalService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals",
			`{"name":"Viagem","category":"viagem","target_amount":0,"deadline":"2027-06-01T00:00:00Z"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestGoalHandler_Allocate(t *testing.T) {
	t.Run("returns outcome from investments", func(t *testing.T) {
		goalSvc := &mockGoalService{
			allocateFn: func(_ context.Context, _, goalID string, amount int64) (*services.AllocationResult, error) {
				return &services.AllocationResult{
					Outcome: finance.AllocatedFromInvestments,
					Goal: &finance.GoalWithStatus{
						Goal: models.Goal{Base: models.Base{ID: goalID}, CurrentAmount: amount},
					},
					Allocations: []models.GoalAllocation{{GoalID: goalID, AllocatedAmount: amount}},
				}, nil
			},
		}
		handler := NewGoalHandler(goalSvc)
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals/"+testGoalID+"/allocate", `{"amount":50000}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["outcome"] != string(finance.AllocatedFromInvestments) {
			t.Errorf("expected allocated_from_investments, got %v", result["outcome"])
		}
	})

	t.Run("returns insufficient funds outcome with 200", func(t *testing.T) {
		goalSvc := &mockGoalService{
			allocateFn: func(_ context.Context, _, _ string, _ int64) (*services.AllocationResult, error) {
				return &services.AllocationResult{Outcome: finance.InsufficientFunds}, nil
			},
		}
		handler := NewGoalHandler(goalSvc)
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals/"+testGoalID+"/allocate", `{"amount":999999}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["outcome"] != string(finance.InsufficientFunds) {
			t.Errorf("expected insufficient_funds, got %v", result["outcome"])
		}
	})

	t.Run("returns 400 on invalid amount", func(t *testing.T) {
		handler := NewGoalHandler(&mockGoalService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals/"+testGoalID+"/allocate", `{"amount":0}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on malformed goal id", func(t *testing.T) {
		handler := NewGoalHandler(&mockGoalService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals/not-a-uuid/allocate", `{"amount":100}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 on unknown goal", func(t *testing.T) {
		goalSvc := &mockGoalService{
			allocateFn: func(_ context.Context, _, _ string, _ int64) (*services.AllocationResult, error) {
				return nil, apperrors.ErrGoalNotFound
			},
		}
		handler := NewGoalHandler(goalSvc)
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals/"+testGoalID+"/allocate", `{"amount":100}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "GOAL_NOT_FOUND")
	})
}

func TestGoalHandler_ListGoals(t *testing.T) {
	goalSvc := &mockGoalService{
		getUserGoalsFn: func(_ string) ([]finance.GoalWithStatus, error) {
			return []finance.GoalWithStatus{
				{Goal: models.Goal{Base: models.Base{ID: testGoalID}, Name: "Viagem"}, Status: models.GoalStatusEmAndamento},
			}, nil
		},
	}
	handler := NewGoalHandler(goalSvc)
	r := setupGoalRouter(handler)

	rec := doRequest(r, "GET", "/goals", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	result := parseJSON(t, rec)
	goals := result["goals"].([]interface{})
	if len(goals) != 1 {
		t.Fatalf("expected 1 goal, got %d", len(goals))
	}
	goal := goals[0].(map[string]interface{})
	if goal["status"] != string(models.GoalStatusEmAndamento) {
		t.Errorf("expected em_andamento, got %v", goal["status"])
	}
}
