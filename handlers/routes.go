package handlers

import (
	"net/http"

	"estimator-backend/config"
	"estimator-backend/docs"
	"estimator-backend/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Deps is everything the HTTP layer needs.
type Deps struct {
	Store    storage.Store
	Config   config.Config
	Logger   *zap.Logger
	Notifier QuoteNotifier
	// Seed is imported by POST /api/admin/seed-calculator.
	Seed []byte
}

// CORSConfig allows the configured frontends, or every origin when none is
// configured.
func CORSConfig(origins []string) cors.Config {
	corsConfig := cors.DefaultConfig()
	if len(origins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowHeaders = []string{
		"Content-Type", "Content-Length", "Accept", "Accept-Encoding", "Accept-Language",
		"Origin", "Authorization", "X-Requested-With", RequestIDHeader,
	}
	corsConfig.ExposeHeaders = []string{"Content-Disposition", RequestIDHeader}
	return corsConfig
}

var routeMeta = map[string]docs.Route{
	"GET /health":                                  {Summary: "Liveness check", Tag: "health"},
	"GET /api/calculator":                          {Summary: "Active calculator configuration", Tag: "calculator"},
	"POST /api/calculator/steps":                   {Summary: "Steps visible for the current selections", Tag: "calculator"},
	"POST /api/calculator/calculate":               {Summary: "Price selections", Tag: "calculator"},
	"POST /api/calculator/quote/pdf":               {Summary: "Priced quote as PDF", Tag: "calculator"},
	"POST /api/calculator-submissions":             {Summary: "Submit selections for a quote", Tag: "submissions"},
	"GET /api/calculator-submissions/:id/qr":       {Summary: "Submission QR badge", Tag: "submissions"},
	"POST /api/admin/login":                        {Summary: "Admin login", Tag: "auth"},
	"GET /api/admin/setup/check":                   {Summary: "Whether first-run setup is needed", Tag: "auth"},
	"POST /api/admin/setup/first":                  {Summary: "Create the first super admin", Tag: "auth"},
	"GET /api/admin/me":                            {Summary: "Signed-in admin profile", Tag: "admin-users", Admin: true},
	"GET /api/admin/users":                         {Summary: "List admin accounts", Tag: "admin-users", Admin: true},
	"POST /api/admin/users":                        {Summary: "Create an admin account", Tag: "admin-users", Admin: true},
	"GET /api/admin/users/:id":                     {Summary: "Get an admin account", Tag: "admin-users", Admin: true},
	"PUT /api/admin/users/:id":                     {Summary: "Update an admin account", Tag: "admin-users", Admin: true},
	"PUT /api/admin/users/:id/password":            {Summary: "Change an admin password", Tag: "admin-users", Admin: true},
	"DELETE /api/admin/users/:id":                  {Summary: "Delete an admin account", Tag: "admin-users", Admin: true},
	"PATCH /api/admin/users/:id/toggle-active":     {Summary: "Toggle an admin account", Tag: "admin-users", Admin: true},
	"GET /api/contact-form":                        {Summary: "Contact form configuration", Tag: "contact"},
	"PUT /api/contact-form":                        {Summary: "Update the contact form", Tag: "contact", Admin: true},
	"POST /api/contact-submissions":                {Summary: "Send a contact message", Tag: "contact"},
	"GET /api/contact-submissions":                 {Summary: "List contact messages", Tag: "contact", Admin: true},
	"DELETE /api/contact-submissions/:id":          {Summary: "Delete a contact message", Tag: "contact", Admin: true},
	"PUT /api/admin/calculator":                    {Summary: "Replace the calculator", Tag: "admin", Admin: true},
	"GET /api/admin/pricing":                       {Summary: "Pricing rules", Tag: "admin", Admin: true},
	"PUT /api/admin/pricing":                       {Summary: "Update pricing", Tag: "admin", Admin: true},
	"PUT /api/admin/pricing/:ruleType":             {Summary: "Replace one rule table", Tag: "admin", Admin: true},
	"POST /api/admin/seed-calculator":              {Summary: "Seed the calculator", Tag: "admin", Admin: true},
	"GET /api/admin/calculator-submissions/export": {Summary: "Export submissions as XLSX", Tag: "admin", Admin: true},
	"GET /api/calculator-submissions":              {Summary: "List submissions", Tag: "submissions", Admin: true},
	"GET /api/calculator-submissions/:id":          {Summary: "Get a submission", Tag: "submissions", Admin: true},
	"DELETE /api/calculator-submissions/:id":       {Summary: "Delete a submission", Tag: "submissions", Admin: true},
	"GET /api/calculator-submissions/:id/pdf":      {Summary: "Submission quote PDF", Tag: "submissions", Admin: true},
}

// NewRouter wires middleware and every route.
func NewRouter(d Deps) *gin.Engine {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := d.Config
	store := d.Store

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(logger))
	r.Use(cors.New(CORSConfig(cfg.CORS.AllowedOrigins)))

	r.GET("/health", Health())
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/swagger/index.html")
	})

	api := r.Group("/api")
	{
		api.GET("/calculator", GetCalculator(store, logger))
		api.POST("/calculator/steps", GetCalculatorSteps(store, logger))
		api.POST("/calculator/calculate", CalculatePrice(store, logger))
		api.POST("/calculator/quote/pdf", QuotePDF(store, logger))

		api.POST("/calculator-submissions", CreateSubmission(store, logger, SubmissionOptions{
			PublicBaseURL: cfg.PublicBaseURL,
			SupportEmail:  cfg.SMTP.From,
			Notifier:      d.Notifier,
		}))
		api.GET("/calculator-submissions/:id/qr", SubmissionQRCode(store, logger, cfg.PublicBaseURL))

		api.POST("/admin/login", AdminLogin(store, cfg.Admin, cfg.JWT, logger))
		api.GET("/admin/setup/check", SetupCheck(store, cfg.Admin, logger))
		api.POST("/admin/setup/first", SetupFirstAdmin(store, cfg.Admin, cfg.JWT, logger))

		api.GET("/contact-form", GetContactForm(store, logger))
		api.POST("/contact-submissions", CreateContactSubmission(store, logger))
	}

	auth := AdminAuth(cfg.JWT.Secret, store, logger)
	api.PUT("/contact-form", auth, UpdateContactForm(store, logger))
	admin := api.Group("/admin", auth)
	{
		admin.PUT("/calculator", UpdateCalculator(store, logger))
		admin.GET("/pricing", GetPricing(store, logger))
		admin.PUT("/pricing", UpdatePricing(store, logger))
		admin.PUT("/pricing/:ruleType", UpdatePricingRule(store, logger))
		admin.POST("/seed-calculator", SeedCalculator(store, logger, d.Seed))
		admin.GET("/calculator-submissions/export", ExportSubmissions(store, logger))

		admin.GET("/me", GetMe(store, logger))
		admin.GET("/users", RequireSuperAdmin("Only super admins can view all admin users"), ListAdmins(store, logger))
		admin.POST("/users", RequireSuperAdmin("Only super admins can create admin users"), CreateAdminUser(store, logger))
		admin.GET("/users/:id", GetAdminUser(store, logger))
		admin.PUT("/users/:id", UpdateAdminUser(store, logger))
		admin.PUT("/users/:id/password", ChangeAdminPassword(store, logger))
		admin.DELETE("/users/:id", RequireSuperAdmin("Only super admins can delete admin users"), DeleteAdminUser(store, logger))
		admin.PATCH("/users/:id/toggle-active", RequireSuperAdmin("Only super admins can toggle admin status"), ToggleAdminActive(store, logger))
	}

	contacts := api.Group("/contact-submissions", auth)
	{
		contacts.GET("", ListContactSubmissions(store, logger))
		contacts.DELETE("/:id", DeleteContactSubmission(store, logger))
	}

	submissions := api.Group("/calculator-submissions", auth)
	{
		submissions.GET("", ListSubmissions(store, logger))
		submissions.GET("/:id", GetSubmission(store, logger))
		submissions.DELETE("/:id", DeleteSubmission(store, logger))
		submissions.GET("/:id/pdf", SubmissionPDF(store, logger, cfg.PublicBaseURL))
	}

	docs.Register(r, routeMeta)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	return r
}
