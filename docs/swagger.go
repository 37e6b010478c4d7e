package docs

import "github.com/swaggo/swag"

// @title           Kanba API
// @version         1.0
// @description     API for multi-tenant Kanban boards: accounts, projects, columns, tasks and the AI chat relay

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:3001
// @BasePath  /api

// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name session
// @description Opaque session token issued at login/register

// @tag.name Auth
// @tag.description Registration, login and session management

// @tag.name Projects
// @tag.description Project management and member invitations

// @tag.name Columns
// @tag.description Column management operations

// @tag.name Tasks
// @tag.description Task management and board moves

// @tag.name AI
// @tag.description Chat relay to the upstream LLM API

// Register swagger info
func SwaggerInfo() *swag.Spec {
	spec, _ := swag.GetSwagger(swag.Name).(*swag.Spec)
	return spec
}
