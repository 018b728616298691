// Package api provides the REST API for DealIndexor
// @title DealIndexor API
// @version 1.0
// @description REST API for querying deals, deposits, rewards and events indexed by DealIndexor
// @contact.name API Support
// @contact.url https://github.com/goran-ethernal/DealIndexor
// @license.name Apache 2.0
// @license.url https://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @basePath /api/v1
// @schemes http https
package api
