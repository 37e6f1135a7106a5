package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/linesmerrill/case-tracker-api/api"
	"github.com/linesmerrill/case-tracker-api/api/scheduler"
	"github.com/linesmerrill/case-tracker-api/audit"
	"github.com/linesmerrill/case-tracker-api/config"
	"github.com/linesmerrill/case-tracker-api/databases"
	"github.com/linesmerrill/case-tracker-api/evidence"
	"github.com/linesmerrill/case-tracker-api/idmint"
	"github.com/linesmerrill/case-tracker-api/mailer"
	"github.com/linesmerrill/case-tracker-api/notify"
	"github.com/linesmerrill/case-tracker-api/realtime"
	"github.com/linesmerrill/case-tracker-api/workflow"
)

const (
	requestTimeout = 30 * time.Second
	startupTimeout = 30 * time.Second
	evidenceFolder = "case-tracker/evidence"
)

// App stores the router and the services behind it, so it can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	Engine    *workflow.Engine
	Users     databases.UserDatabase
	Hub       *realtime.Hub
	SocketIO  *realtime.SocketIO
	Evidence  evidence.Store
	Scheduler *scheduler.Scheduler

	dbHelper databases.DatabaseHelper
	closers  []func()
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: a.Users, Secret: []byte(a.Config.JWTSecret)}
	m.SetupGoGuardian()

	r := mux.NewRouter()
	r.Use(api.RequestIDMiddleware)

	c := Complaint{Engine: a.Engine}
	f := FIR{Engine: a.Engine}
	cf := CaseFile{Engine: a.Engine}
	n := Notification{Engine: a.Engine, Hub: a.Hub}
	ev := Evidence{Store: a.Evidence}

	// healthchex
	r.HandleFunc("/health", api.HealthCheckHandler)

	// realtime connections are long lived and stay outside the request timeout
	if a.Hub != nil {
		r.Handle("/ws/notifications", m.Middleware(http.HandlerFunc(n.NotificationsWebSocketHandler))).Methods("GET")
	}
	if a.SocketIO != nil {
		r.PathPrefix("/socket.io/").Handler(a.SocketIO.Handler())
	}

	apiCreate := r.PathPrefix("/api/v1").Subrouter()
	apiCreate.Use(api.TimeoutMiddleware(requestTimeout))

	apiCreate.Handle("/complaints", m.Middleware(http.HandlerFunc(c.CreateComplaintHandler))).Methods("POST")
	apiCreate.Handle("/complaints", m.Middleware(http.HandlerFunc(c.ComplaintsHandler))).Methods("GET")
	apiCreate.Handle("/complaints/{complaint_id}", m.Middleware(http.HandlerFunc(c.ComplaintByIDHandler))).Methods("GET")
	apiCreate.Handle("/complaints/{complaint_id}/assign", m.Middleware(http.HandlerFunc(c.AssignComplaintHandler))).Methods("PUT")
	apiCreate.Handle("/complaints/{complaint_id}/status", m.Middleware(http.HandlerFunc(c.UpdateComplaintStatusHandler))).Methods("PUT")
	apiCreate.Handle("/complaints/{complaint_id}/fir", m.Middleware(http.HandlerFunc(f.CreateFIRHandler))).Methods("POST")

	apiCreate.Handle("/firs", m.Middleware(http.HandlerFunc(f.FIRsHandler))).Methods("GET")
	apiCreate.Handle("/firs/number/{fir_number}", m.Middleware(http.HandlerFunc(f.FIRByNumberHandler))).Methods("GET")
	apiCreate.Handle("/firs/{fir_id}", m.Middleware(http.HandlerFunc(f.FIRByIDHandler))).Methods("GET")
	apiCreate.Handle("/firs/{fir_id}/status", m.Middleware(http.HandlerFunc(f.UpdateFIRStatusHandler))).Methods("PUT")
	apiCreate.Handle("/firs/{fir_id}/notes", m.Middleware(http.HandlerFunc(f.AddInvestigationNoteHandler))).Methods("POST")
	apiCreate.Handle("/firs/{fir_id}/casefile", m.Middleware(http.HandlerFunc(cf.CreateCaseFileHandler))).Methods("POST")

	apiCreate.Handle("/casefiles", m.Middleware(http.HandlerFunc(cf.CaseFilesHandler))).Methods("GET")
	apiCreate.Handle("/casefiles/number/{case_number}", m.Middleware(http.HandlerFunc(cf.CaseFileByNumberHandler))).Methods("GET")
	apiCreate.Handle("/casefiles/{case_id}", m.Middleware(http.HandlerFunc(cf.CaseFileByIDHandler))).Methods("GET")
	apiCreate.Handle("/casefiles/{case_id}/status", m.Middleware(http.HandlerFunc(cf.UpdateCaseStatusHandler))).Methods("PUT")
	apiCreate.Handle("/casefiles/{case_id}/hearings", m.Middleware(http.HandlerFunc(cf.ScheduleHearingHandler))).Methods("POST")
	apiCreate.Handle("/casefiles/{case_id}/judgment", m.Middleware(http.HandlerFunc(cf.RecordJudgmentHandler))).Methods("POST")

	apiCreate.Handle("/notifications", m.Middleware(http.HandlerFunc(n.NotificationsHandler))).Methods("GET")
	apiCreate.Handle("/notifications/unread-count", m.Middleware(http.HandlerFunc(n.UnreadCountHandler))).Methods("GET")
	apiCreate.Handle("/notifications/read-all", m.Middleware(http.HandlerFunc(n.MarkAllReadHandler))).Methods("PUT")
	apiCreate.Handle("/notifications/{notification_id}/read", m.Middleware(http.HandlerFunc(n.MarkReadHandler))).Methods("PUT")
	apiCreate.Handle("/notifications/{notification_id}", m.Middleware(http.HandlerFunc(n.DeleteNotificationHandler))).Methods("DELETE")

	apiCreate.Handle("/evidence", m.Middleware(http.HandlerFunc(ev.UploadEvidenceHandler))).Methods("POST")

	return r
}

// Initialize is invoked by main to connect with the database, wire the
// workflow and create a router
func (a *App) Initialize() error {
	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().Errorw("failed to create new client", "error", err)
		return err
	}
	a.closers = append(a.closers, func() { _ = client.Disconnect(context.Background()) })

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().Errorw("failed to connect to database", "error", err)
		return err
	}
	a.dbHelper = databases.NewDatabase(&a.Config, client)
	zap.S().Info("case-tracker-api has connected to the database")

	if err := databases.EnsureIndexes(ctx, a.dbHelper); err != nil {
		return err
	}

	stores := workflow.Stores{
		Complaints:    databases.NewComplaintDatabase(a.dbHelper),
		FIRs:          databases.NewFIRDatabase(a.dbHelper),
		CaseFiles:     databases.NewCaseFileDatabase(a.dbHelper),
		Notifications: databases.NewNotificationDatabase(a.dbHelper),
		Users:         databases.NewUserDatabase(a.dbHelper),
	}
	a.Users = stores.Users

	minter, err := a.newMinter(ctx, stores)
	if err != nil {
		return err
	}
	ledger, err := a.newLedger()
	if err != nil {
		return err
	}

	a.Hub = realtime.NewHub()
	a.SocketIO = realtime.NewSocketIO()
	go a.SocketIO.Serve()
	a.closers = append(a.closers, func() { _ = a.SocketIO.Close() })

	var notifyOpts []notify.Option
	if a.Config.SendgridAPIKey != "" {
		notifyOpts = append(notifyOpts, notify.WithMailer(mailer.New(a.Config.SendgridAPIKey, a.Config.MailFrom, a.Config.BaseURL)))
	} else {
		zap.S().Info("SENDGRID_API_KEY not set, notification email disabled")
	}
	fanout := notify.New(stores.Notifications, stores.Users, realtime.Multi{a.Hub, a.SocketIO}, notifyOpts...)

	engineOpts := []workflow.Option{
		workflow.WithNotifier(fanout),
		workflow.WithCourtName(a.Config.DefaultCourtName),
	}
	if ledger != nil {
		engineOpts = append(engineOpts, workflow.WithAuditor(audit.NewRecorder(ledger, a.Config.LedgerTimeout)))
	}
	a.Engine = workflow.New(stores, minter, engineOpts...)

	if a.Config.CloudinaryURL != "" {
		store, err := evidence.NewCloudinary(a.Config.CloudinaryURL, evidenceFolder)
		if err != nil {
			return fmt.Errorf("failed to configure cloudinary: %w", err)
		}
		a.Evidence = store
	} else {
		zap.S().Info("CLOUDINARY_URL not set, evidence upload disabled")
	}

	a.Scheduler = scheduler.NewScheduler(a.Engine, databases.NewSchedulerLockDatabase(a.dbHelper), a.Config.ReconcileSchedule)

	// initialize api router
	a.initializeRoutes()
	return nil
}

// newMinter picks the counter backend and raises this year's counters past
// existing numbers
func (a *App) newMinter(ctx context.Context, stores workflow.Stores) (*idmint.Minter, error) {
	var seq idmint.Sequence = databases.NewCounterDatabase(a.dbHelper)
	if a.Config.RedisAddr != "" {
		rdb := idmint.NewRedisClient(a.Config.RedisAddr, a.Config.RedisPassword)
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		seq = idmint.NewRedisSequence(rdb)
		zap.S().Infow("minting identifiers from redis", "addr", a.Config.RedisAddr)
	}

	minter := idmint.New(seq)
	err := minter.Seed(ctx, time.Now().Year(), map[idmint.Kind]idmint.Counter{
		idmint.KindFIR:  stores.FIRs,
		idmint.KindCase: stores.CaseFiles,
	})
	if err != nil {
		return nil, err
	}
	return minter, nil
}

// newLedger returns the configured ledger, or nil when attestation is off
func (a *App) newLedger() (audit.Ledger, error) {
	switch a.Config.LedgerMode {
	case config.LedgerHTTP:
		if a.Config.LedgerURL == "" {
			return nil, fmt.Errorf("LEDGER_URL is required for ledger mode %q", config.LedgerHTTP)
		}
		return audit.NewHTTPLedger(a.Config.LedgerURL, a.Config.LedgerTimeout), nil
	case config.LedgerFabric:
		ledger, err := audit.NewFabricLedger(a.Config.Fabric)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to fabric gateway: %w", err)
		}
		a.closers = append(a.closers, ledger.Close)
		return ledger, nil
	case config.LedgerNone, "":
		zap.S().Info("ledger attestation disabled")
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LEDGER_MODE %q", a.Config.LedgerMode)
	}
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

// Close releases the connections opened by Initialize, newest first
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
