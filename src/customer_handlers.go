package main

import (
	"log"
	"net/http"
	"os"

	"portal/src/common"
	"portal/src/db"
	"portal/src/lib"
	"portal/src/lib/mailer"
	"portal/src/models"
	"portal/src/types"
	"portal/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// checkout plans resolve to Stripe price ids through the environment so
// pricing changes never require a deploy.
var checkoutPlanPrices = map[string]string{
	"starter": os.Getenv("STRIPE_STARTER_PRICE_ID"),
	"pro":     os.Getenv("STRIPE_PRO_PRICE_ID"),
}

func requireCustomer(ctx *gin.Context) (*models.Customer, bool) {
	teamId, err := uuid.Parse(ctx.GetString("team"))
	if err != nil {
		ctx.Status(http.StatusUnauthorized)
		return nil, false
	}
	customerId, err := uuid.Parse(ctx.Param("customerId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID format."})
		return nil, false
	}
	customer, err := common.GetCustomerById(customerId, teamId)
	if err != nil {
		log.Printf("Error retrieving customer %s: %s\n", customerId, err.Error())
		ctx.Status(http.StatusInternalServerError)
		return nil, false
	}
	if customer == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return nil, false
	}
	return customer, true
}

func customerHandlers(g *gin.RouterGroup) {
	g.
		GET("/customers/:customerId/portal/requests", func(ctx *gin.Context) {
			customer, ok := requireCustomer(ctx)
			if !ok {
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
			ctx.JSON(http.StatusOK, gin.H{"data": requests})
		}).
		PATCH("/customers/:customerId/portal/requests/:requestId", func(ctx *gin.Context) {
			var body types.UpdatePortalRequestRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if body.Status == nil && body.Resources == nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
				return
			}
			if body.Status != nil && !body.Status.Valid() {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "Unknown request status"})
				return
			}
			customer, ok := requireCustomer(ctx)
			if !ok {
				return
			}
			requestId, err := uuid.Parse(ctx.Param("requestId"))
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID format."})
				return
			}
			var resources *types.Resources
			if body.Resources != nil {
				converted := make(types.Resources, 0, len(*body.Resources))
				for _, res := range *body.Resources {
					converted = append(converted, types.Resource{
						Label: res.Label,
						URL:   res.URL,
					})
				}
				resources = &converted
			}
			request, err := utils.UpdateClientRequest(customer.TeamID, customer.ID, requestId, body.Status, resources)
			if err != nil {
				if mapped := utils.MapRequestWriteError(err); mapped != nil {
					respondPortalError(ctx, mapped)
					return
				}
				log.Printf("Error updating client request %s: %s\n", requestId, err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			if request == nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": request})
		}).
		GET("/customers/:customerId/portal/messages", func(ctx *gin.Context) {
			var query struct {
				Limit int `form:"limit"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			customer, ok := requireCustomer(ctx)
			if !ok {
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
			for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
				messages[i], messages[j] = messages[j], messages[i]
			}
			ctx.JSON(http.StatusOK, gin.H{"messages": messages})
		}).
		POST("/customers/:customerId/portal/messages", func(ctx *gin.Context) {
			var body types.CreateCustomerMessageRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			customer, ok := requireCustomer(ctx)
			if !ok {
				return
			}
			attachments, dropped := utils.SanitizePortalAttachments(bodyAttachments(body.Attachments), customer.TeamID, customer.ID)
			if dropped > 0 {
				log.Printf("Dropped %d attachment(s) outside portal scope for customer %s\n", dropped, customer.ID)
			}
			var senderUserId *uuid.UUID
			if userId, err := uuid.Parse(ctx.GetString("id")); err == nil {
				senderUserId = &userId
			}
			senderName := ctx.GetString("name")
			if senderName == "" {
				senderName = ctx.GetString("email")
			}
			message, err := utils.CreatePortalMessage(&utils.CreatePortalMessageParams{
				TeamID:       customer.TeamID,
				CustomerID:   customer.ID,
				RequestID:    body.RequestID,
				SenderType:   types.SenderTypeFreelancer,
				SenderUserID: senderUserId,
				SenderName:   &senderName,
				Message:      body.Message,
				Attachments:  attachments,
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
		POST("/customers/:customerId/portal/toggle", func(ctx *gin.Context) {
			var body types.TogglePortalRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			customer, ok := requireCustomer(ctx)
			if !ok {
				return
			}
			firstEnable := body.Enabled && customer.PortalID == nil
			if firstEnable {
				portalId, err := utils.NewPortalId()
				if err != nil {
					log.Printf("Error minting portal id: %s\n", err.Error())
					ctx.Status(http.StatusInternalServerError)
					return
				}
				customer.PortalID = &portalId
			}
			customer.PortalEnabled = body.Enabled
			if err := db.GetDb().Save(customer).Error; err != nil {
				log.Printf("Error toggling portal for customer %s: %s\n", customer.ID, err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			if firstEnable && customer.Email != "" {
				to := common.NormalizeEmail(customer.Email)
				teamName := ""
				if customer.Team != nil {
					teamName = customer.Team.Name
				}
				portalUrl := portalBaseUrl(*customer.PortalID)
				go func() {
					if err := mailer.SendPortalWelcomeEmail(to, teamName, portalUrl); err != nil {
						log.Printf("Failed to send portal welcome email: %s\n", err.Error())
					}
				}()
			}
			ctx.JSON(http.StatusOK, gin.H{
				"portal_enabled": customer.PortalEnabled,
				"portal_id":      customer.PortalID,
			})
		}).
		POST("/customers/:customerId/checkout", func(ctx *gin.Context) {
			var body types.CreateCheckoutRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			customer, ok := requireCustomer(ctx)
			if !ok {
				return
			}
			priceId := checkoutPlanPrices[body.Plan]
			if priceId == "" {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "Unknown plan"})
				return
			}
			url, err := lib.CreateSubscriptionCheckout(ctx, priceId, customer.Email, map[string]string{
				"team_id":     customer.TeamID.String(),
				"customer_id": customer.ID.String(),
			})
			if err != nil {
				log.Printf("Error creating checkout session for customer %s: %s\n", customer.ID, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to start checkout right now. Please try again shortly."})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"url": url})
		})
}
