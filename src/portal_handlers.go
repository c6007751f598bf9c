package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"portal/src/common"
	"portal/src/config"
	"portal/src/lib"
	"portal/src/lib/mailer"
	"portal/src/middlewares"
	"portal/src/types"
	"portal/src/utils"

	awslib "portal/src/lib/aws"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func portalBaseUrl(portalId string) string {
	dashboardUrl := strings.TrimSuffix(os.Getenv("DASHBOARD_URL"), "/")
	return fmt.Sprintf("%s/client/%s", dashboardUrl, portalId)
}

func bodyAttachments(bodies []types.AttachmentBody) []types.Attachment {
	attachments := make([]types.Attachment, 0, len(bodies))
	for _, body := range bodies {
		attachments = append(attachments, types.Attachment{
			Name: body.Name,
			Path: body.Path,
			Size: body.Size,
			Type: body.Type,
		})
	}
	return attachments
}

func portalRoutes(g *gin.Engine) *gin.RouterGroup {
	pg := g.Group(apiPrefix + "/portal/:portalId")

	pg.
		GET("", func(ctx *gin.Context) {
			portalId := ctx.Param("portalId")
			customer, err := common.GetCustomerByPortalId(portalId)
			if err != nil {
				log.Printf("Error retrieving portal [%s]: %s\n", portalId, err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			if customer == nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "Customer portal not found"})
				return
			}
			summary, err := utils.GetCustomerInvoiceSummary(customer.TeamID, customer.ID)
			if err != nil {
				log.Printf("Error computing invoice summary: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			teamName := ""
			if customer.Team != nil {
				teamName = customer.Team.Name
			}
			ctx.JSON(http.StatusOK, gin.H{
				"customer": gin.H{
					"name":      customer.Name,
					"portal_id": customer.PortalID,
					"team_name": teamName,
				},
				"summary": summary,
			})
		}).
		POST("/login", func(ctx *gin.Context) {
			var body types.SendPortalLoginLinkRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			portalId := ctx.Param("portalId")
			customer, err := common.GetCustomerByPortalId(portalId)
			if err != nil {
				log.Printf("Error retrieving portal [%s]: %s\n", portalId, err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			if customer == nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "Customer portal not found"})
				return
			}
			customerEmail := common.NormalizeEmail(customer.Email)
			providedEmail := common.NormalizeEmail(body.Email)
			if customerEmail == "" || customerEmail != providedEmail {
				ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Email does not match the customer email on file"})
				return
			}

			code, err := utils.NewLoginCode()
			if err != nil {
				log.Printf("Error generating login code: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			portalUrl := portalBaseUrl(portalId)
			if err := lib.SetPortalLoginCode(ctx, portalId, providedEmail, &lib.PortalLoginCode{
				Code:      code,
				PortalURL: portalUrl,
			}); err != nil {
				log.Printf("Error caching login code: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}

			teamName := ""
			if customer.Team != nil {
				teamName = customer.Team.Name
			}
			customerName := customer.Name
			go func() {
				if err := mailer.SendPortalLoginEmail(providedEmail, teamName, customerName, code, portalUrl); err != nil {
					log.Printf("Failed to send portal login email: %s\n", err.Error())
				}
			}()

			ctx.JSON(http.StatusOK, gin.H{"sent": true})
		}).
		POST("/verify", func(ctx *gin.Context) {
			var body types.VerifyPortalLoginCodeRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			portalId := ctx.Param("portalId")
			providedEmail := common.NormalizeEmail(body.Email)
			cached, err := lib.GetPortalLoginCode(ctx, portalId, providedEmail)
			if err != nil {
				log.Printf("Error reading login code: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			if cached == nil || cached.Code != body.Code {
				ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired sign-in code"})
				return
			}
			if err := lib.DeletePortalLoginCode(ctx, portalId, providedEmail); err != nil {
				log.Printf("Error deleting login code: %s\n", err.Error())
			}
			token, err := utils.GeneratePortalSessionToken(portalId, providedEmail)
			if err != nil {
				log.Printf("Error generating portal session: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"token": token})
		})

	portalSessionRoutes(pg)

	return pg
}

func portalSessionRoutes(pg *gin.RouterGroup) {
	// every operation below re-resolves the customer and re-checks the
	// session email against the record; the token alone is not enough.
	sg := pg.Group("")
	sg.Use(middlewares.PortalAuthMiddleware)

	sg.
		GET("/requests", func(ctx *gin.Context) {
			customer, perr := common.RequirePortalAccess(ctx.Param("portalId"), ctx.GetString("portal_email"))
			if perr != nil {
				respondPortalError(ctx, perr)
				return
			}
			requests, err := utils.ListClientRequests(customer.TeamID, customer.ID)
			if err != nil {
				if mapped := utils.MapRequestReadError(err); mapped != nil {
					respondPortalError(ctx, mapped)
					return
				}
				log.Printf("Error retrieving client requests: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			for i := range requests {
				requests[i].Resources = utils.ResolveRequestResources(requests[i].Resources, requests[i].StagingURL)
			}
			common.WithSignedRequestAttachments(ctx, requests)

			var active any
			backlog := []any{}
			for i := range requests {
				if requests[i].Status.IsActive() && active == nil {
					active = requests[i]
				}
				if requests[i].Status == types.RequestStatusBacklog {
					backlog = append(backlog, requests[i])
				}
			}
			ctx.JSON(http.StatusOK, gin.H{
				"active_request": active,
				"backlog":        backlog,
				"requests":       requests,
			})
		}).
		POST("/requests", func(ctx *gin.Context) {
			var body types.CreatePortalRequestRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			customer, perr := common.RequirePortalAccess(ctx.Param("portalId"), ctx.GetString("portal_email"))
			if perr != nil {
				respondPortalError(ctx, perr)
				return
			}
			attachments, dropped := utils.SanitizePortalAttachments(bodyAttachments(body.Attachments), customer.TeamID, customer.ID)
			if dropped > 0 {
				log.Printf("Dropped %d attachment(s) outside portal scope for customer %s\n", dropped, customer.ID)
			}
			request, err := utils.CreateClientRequest(&utils.CreateClientRequestParams{
				TeamID:      customer.TeamID,
				CustomerID:  customer.ID,
				Title:       body.Title,
				Details:     body.Details,
				RequestedBy: body.RequestedBy,
				Attachments: attachments,
			})
			if err != nil {
				if perr, ok := err.(*types.PortalError); ok {
					respondPortalError(ctx, perr)
					return
				}
				if mapped := utils.MapRequestWriteError(err); mapped != nil {
					respondPortalError(ctx, mapped)
					return
				}
				log.Printf("Error creating client request: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": request})
		}).
		POST("/requests/reorder", func(ctx *gin.Context) {
			var body types.ReorderPortalRequestsRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			customer, perr := common.RequirePortalAccess(ctx.Param("portalId"), ctx.GetString("portal_email"))
			if perr != nil {
				respondPortalError(ctx, perr)
				return
			}
			requestIds := make([]uuid.UUID, 0, len(body.RequestIDs))
			for _, raw := range body.RequestIDs {
				id, err := uuid.Parse(raw)
				if err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID format."})
					return
				}
				requestIds = append(requestIds, id)
			}
			applied, err := utils.ReorderBacklogRequests(customer.TeamID, customer.ID, requestIds)
			if err != nil {
				if mapped := utils.MapRequestWriteError(err); mapped != nil {
					respondPortalError(ctx, mapped)
					return
				}
				log.Printf("Error reordering backlog: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"request_ids": applied})
		}).
		GET("/messages", func(ctx *gin.Context) {
			var query struct {
				Limit int `form:"limit"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			customer, perr := common.RequirePortalAccess(ctx.Param("portalId"), ctx.GetString("portal_email"))
			if perr != nil {
				respondPortalError(ctx, perr)
				return
			}
			messages, err := utils.ListPortalMessages(customer.TeamID, customer.ID, query.Limit)
			if err != nil {
				if mapped := utils.MapMessageReadError(err); mapped != nil {
					respondPortalError(ctx, mapped)
					return
				}
				log.Printf("Error retrieving portal messages: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			common.WithSignedMessageAttachments(ctx, messages)
			// store order is newest-first; the thread renders oldest-first
			for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
				messages[i], messages[j] = messages[j], messages[i]
			}
			ctx.JSON(http.StatusOK, gin.H{"messages": messages})
		}).
		POST("/messages", func(ctx *gin.Context) {
			var body types.CreatePortalMessageRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			customer, perr := common.RequirePortalAccess(ctx.Param("portalId"), ctx.GetString("portal_email"))
			if perr != nil {
				respondPortalError(ctx, perr)
				return
			}
			attachments, dropped := utils.SanitizePortalAttachments(bodyAttachments(body.Attachments), customer.TeamID, customer.ID)
			if dropped > 0 {
				log.Printf("Dropped %d attachment(s) outside portal scope for customer %s\n", dropped, customer.ID)
			}
			senderName := body.SenderName
			if senderName == nil && customer.Name != "" {
				senderName = &customer.Name
			}
			message, err := utils.CreatePortalMessage(&utils.CreatePortalMessageParams{
				TeamID:      customer.TeamID,
				CustomerID:  customer.ID,
				RequestID:   body.RequestID,
				SenderType:  types.SenderTypeClient,
				SenderName:  senderName,
				Message:     body.Message,
				Attachments: attachments,
			})
			if err != nil {
				if perr, ok := err.(*types.PortalError); ok {
					respondPortalError(ctx, perr)
					return
				}
				if mapped := utils.MapMessageWriteError(err); mapped != nil {
					respondPortalError(ctx, mapped)
					return
				}
				log.Printf("Error creating portal message: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": message})
		}).
		POST("/uploads", func(ctx *gin.Context) {
			var body types.CreateAttachmentUploadRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			customer, perr := common.RequirePortalAccess(ctx.Param("portalId"), ctx.GetString("portal_email"))
			if perr != nil {
				respondPortalError(ctx, perr)
				return
			}
			fileName := utils.SanitizePortalFileName(body.FileName)
			scopeFolder := "portal-requests"
			if body.Scope == "message" {
				scopeFolder = "portal-messages"
			}
			filePath := []string{
				customer.TeamID.String(),
				"customers",
				customer.ID.String(),
				scopeFolder,
				fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), uuid.New(), fileName),
			}
			uploadUrl, err := awslib.S3SignedUploadURL(ctx, config.GetVaultBucket(), strings.Join(filePath, "/"), body.ContentType, config.UploadURLTTL)
			if err != nil {
				log.Printf("Error creating upload URL for customer %s: %s\n", customer.ID, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to initialize file upload"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"path": filePath,
				"url":  uploadUrl,
			})
		}).
		GET("/assets", func(ctx *gin.Context) {
			var query struct {
				PageSize int `form:"page_size"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			customer, perr := common.RequirePortalAccess(ctx.Param("portalId"), ctx.GetString("portal_email"))
			if perr != nil {
				respondPortalError(ctx, perr)
				return
			}
			documents, err := common.GetCustomerPortalAssets(customer.TeamID, customer.ID, query.PageSize)
			if err != nil {
				log.Printf("Error retrieving portal assets: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": common.SignPortalAssets(ctx, documents)})
		}).
		GET("/invoices", func(ctx *gin.Context) {
			var query struct {
				Cursor   string `form:"cursor"`
				PageSize int    `form:"page_size"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			customer, perr := common.RequirePortalAccess(ctx.Param("portalId"), ctx.GetString("portal_email"))
			if perr != nil {
				respondPortalError(ctx, perr)
				return
			}
			invoices, nextCursor, err := utils.GetCustomerPortalInvoices(customer.TeamID, customer.ID, query.Cursor, query.PageSize)
			if err != nil {
				log.Printf("Error retrieving portal invoices: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"data": invoices,
				"meta": gin.H{"cursor": nextCursor},
			})
		}).
		POST("/subscription", func(ctx *gin.Context) {
			customer, perr := common.RequirePortalAccess(ctx.Param("portalId"), ctx.GetString("portal_email"))
			if perr != nil {
				respondPortalError(ctx, perr)
				return
			}
			if customer.StripeCustomerID == nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "No subscription is set up for this portal yet"})
				return
			}
			url, err := lib.CreateBillingPortalSession(ctx, *customer.StripeCustomerID, portalBaseUrl(ctx.Param("portalId")))
			if err != nil {
				log.Printf("Error creating billing portal session for customer %s: %s\n", customer.ID, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to open subscription management right now. Please try again shortly."})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"url": url})
		})
}
