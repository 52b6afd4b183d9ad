// controllers/loan_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"Gin_postgres_redis_line_bot/app"
	"Gin_postgres_redis_line_bot/dateutil"
	"Gin_postgres_redis_line_bot/db"
	"Gin_postgres_redis_line_bot/loans"

	"github.com/gin-gonic/gin"
)

type loanView struct {
	Row        int      `json:"row"`
	Username   string   `json:"username"`
	Items      []string `json:"items"`
	BorrowedAt string   `json:"borrowedAt"`
	ReturnedAt string   `json:"returnedAt"`
}

func toViews(recs []loans.LoanRecord, s *loans.Store) []loanView {
	loc := s.Location()
	out := make([]loanView, 0, len(recs))
	for _, r := range recs {
		v := loanView{Row: r.Row, Username: r.DisplayName(), Items: loans.SplitItems(r.Items)}
		if d, ok := r.BorrowDay(loc); ok {
			v.BorrowedAt = dateutil.FormatDay(d)
		}
		if d, ok := r.ReturnDay(loc); ok {
			v.ReturnedAt = dateutil.FormatDay(d)
		}
		out = append(out, v)
	}
	return out
}

// GET /api/loans?date=2025.09.11 或 ?month=2025.09
func (s *Srv) ListLoans(c *gin.Context) {
	ctx := c.Request.Context()
	date, month := c.Query("date"), c.Query("month")

	switch {
	case date != "":
		recs, err := s.Store.LoansOnDay(ctx, date)
		if err != nil {
			loanError(c, err)
			return
		}
		c.JSON(http.StatusOK, app.H{"date": date, "items": toViews(recs, s.Store)})
	case month != "":
		recs, _, err := s.Store.LoansInMonth(ctx, month)
		if err != nil {
			loanError(c, err)
			return
		}
		c.JSON(http.StatusOK, app.H{"month": month, "items": toViews(recs, s.Store)})
	default:
		c.JSON(http.StatusBadRequest, app.H{"error": "date or month is required"})
	}
}

func loanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, loans.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, app.H{"error": loans.Message(err)})
	case errors.Is(err, loans.ErrStoreMissing):
		c.JSON(http.StatusNotFound, app.H{"error": loans.Message(err)})
	default:
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
	}
}

// CommandLogController 指令紀錄（只有 Postgres 後端才有）
type CommandLogController struct{ repo *db.Repo }

func NewCommandLogController(repo *db.Repo) *CommandLogController {
	return &CommandLogController{repo: repo}
}

// GET /api/commands?userId=&limit=20
func (cc *CommandLogController) ListCommands(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	logs, err := cc.repo.ListCommandLogs(c.Request.Context(), c.Query("userId"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"items": logs})
}
