package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"

	config "github.com/Adarsh-Naik/tcs-forecast-agent/configs"
	"github.com/Adarsh-Naik/tcs-forecast-agent/pkg/models"
)

// Storage persists forecast request logs and extracted financial metrics in
// Postgres. Persistence is bookkeeping only; the forecast pipeline itself
// never depends on it.
type Storage struct {
	db *sql.DB
}

// NewStorage opens the database connection and ensures the schema exists.
func NewStorage(cfg *config.Config) (*Storage, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Storage{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// Close closes the underlying connection pool.
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS forecast_logs (
			id SERIAL PRIMARY KEY,
			request_timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			task_description TEXT NOT NULL,
			tools_used JSONB,
			execution_time_seconds NUMERIC(10,2),
			forecast_output JSONB NOT NULL,
			llm_provider VARCHAR(50),
			status VARCHAR(20) DEFAULT 'success',
			error_message TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS financial_metrics (
			id SERIAL PRIMARY KEY,
			forecast_log_id INTEGER REFERENCES forecast_logs(id),
			quarter VARCHAR(10),
			year INTEGER,
			total_revenue NUMERIC(20,2),
			net_profit NUMERIC(20,2),
			operating_margin NUMERIC(5,2),
			revenue_growth NUMERIC(5,2),
			extracted_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query %s: %w", query, err)
		}
	}

	return nil
}

// SaveForecastLog inserts one log row and returns its id. forecast may be
// any JSON-marshalable value; error rows pass an error payload here.
func (s *Storage) SaveForecastLog(task string, toolsUsed []string, executionSeconds float64, forecast interface{}, provider, status, errorMessage string) (int64, error) {
	if toolsUsed == nil {
		toolsUsed = []string{}
	}
	toolsJSON, err := json.Marshal(toolsUsed)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal tools list: %w", err)
	}
	forecastJSON, err := json.Marshal(forecast)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal forecast output: %w", err)
	}

	var id int64
	err = s.db.QueryRow(`
		INSERT INTO forecast_logs (task_description, tools_used, execution_time_seconds, forecast_output, llm_provider, status, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
		RETURNING id`,
		task, toolsJSON, executionSeconds, forecastJSON, provider, status, errorMessage,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert forecast log: %w", err)
	}
	return id, nil
}

// SaveFinancialMetrics stores the metrics extracted for a forecast run.
func (s *Storage) SaveFinancialMetrics(logID int64, metrics *models.FinancialMetrics) error {
	_, err := s.db.Exec(`
		INSERT INTO financial_metrics (forecast_log_id, quarter, year, total_revenue, net_profit, operating_margin, revenue_growth)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		logID, metrics.Quarter, metrics.Year, metrics.TotalRevenue, metrics.NetProfit, metrics.OperatingMargin, metrics.RevenueGrowth,
	)
	if err != nil {
		return fmt.Errorf("failed to insert financial metrics: %w", err)
	}
	return nil
}

// ListRecentLogs returns the most recent forecast log rows, newest first.
func (s *Storage) ListRecentLogs(limit int) ([]models.ForecastLogEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, request_timestamp, task_description, tools_used, COALESCE(execution_time_seconds, 0), COALESCE(llm_provider, ''), status, COALESCE(error_message, '')
		FROM forecast_logs
		ORDER BY request_timestamp DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query forecast logs: %w", err)
	}
	defer rows.Close()

	var entries []models.ForecastLogEntry
	for rows.Next() {
		var entry models.ForecastLogEntry
		var toolsJSON []byte
		if err := rows.Scan(&entry.ID, &entry.RequestTimestamp, &entry.TaskDescription, &toolsJSON, &entry.ExecutionTimeSeconds, &entry.LLMProvider, &entry.Status, &entry.ErrorMessage); err != nil {
			return nil, fmt.Errorf("failed to scan forecast log row: %w", err)
		}
		if len(toolsJSON) > 0 {
			if err := json.Unmarshal(toolsJSON, &entry.ToolsUsed); err != nil {
				return nil, fmt.Errorf("failed to decode tools list for log %d: %w", entry.ID, err)
			}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate forecast logs: %w", err)
	}
	return entries, nil
}
