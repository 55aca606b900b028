package httpapi

import "github.com/gin-gonic/gin"

// Register wires every route to its handler. The route gate decides who
// reaches what; this table only maps paths. Keep it free of business logic.
func Register(r gin.IRouter, h Handlers) {
	r.GET("/healthz", h.Healthz)

	// Pages. "/" and "/register" never render; the gate redirects them.
	r.GET("/login", h.LoginPage)
	r.GET("/chat", h.ChatPage)
	r.GET("/admin", h.AdminPage)
	r.GET("/super-admin", h.SuperAdminPage)

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", h.Login)
			authGroup.POST("/logout", h.Logout)
		}

		api.GET("/me", h.Me)

		chats := api.Group("/chats")
		{
			chats.GET("", h.ListChats)
			chats.GET("/:id", h.GetChat)
			chats.DELETE("/:id", h.DeleteChat)
			chats.GET("/:id/messages", h.ListChatMessages)
			chats.POST("/:id/messages", h.AskChat)
		}

		workspaces := api.Group("/workspaces")
		{
			workspaces.GET("", h.ListWorkspaces)
			workspaces.GET("/:id", h.GetWorkspace)
			workspaces.POST("/:id/chats", h.CreateChat)
			workspaces.GET("/:id/documents", h.ListDocumentsOfWorkspace)
			workspaces.POST("/:id/documents", h.CreateDocument)
			workspaces.DELETE("/:id/documents/:doc_id", h.DeleteDocument)
		}

		admin := api.Group("/admin")
		{
			admin.POST("/users", h.CreateUser)
			admin.GET("/users", h.ListUsers)
			admin.GET("/users/:id", h.GetUser)
			admin.PATCH("/users/:id", h.UpdateUser)
			admin.DELETE("/users/:id", h.DeleteUser)

			admin.POST("/workspaces", h.CreateWorkspace)
			admin.GET("/workspaces", h.ListWorkspaces)
			admin.GET("/workspaces/:id", h.GetWorkspace)
			admin.PATCH("/workspaces/:id", h.UpdateWorkspace)
			admin.DELETE("/workspaces/:id", h.DeleteWorkspace)

			admin.POST("/workspaces/:id/grants", h.GrantWorkspaceAccess)
			admin.GET("/workspaces/:id/grants", h.ListWorkspaceGrants)
			admin.DELETE("/workspaces/:id/grants/:user_id", h.RevokeWorkspaceAccess)

			admin.GET("/reports/usage", h.UsageReport)
			admin.GET("/reports/workspaces", h.WorkspaceActivityReport)
		}

		super := api.Group("/super-admin")
		{
			super.POST("/orgs", h.CreateOrg)
			super.GET("/orgs", h.ListOrgs)
			super.GET("/orgs/:id", h.GetOrg)
			super.PATCH("/orgs/:id", h.UpdateOrg)
			super.DELETE("/orgs/:id", h.DeleteOrg)

			super.GET("/users", h.ListUsers)
			super.POST("/users", h.CreateUser)
			super.DELETE("/users/:id", h.DeleteUser)

			super.GET("/reports/usage", h.UsageReport)
		}
	}
}
