package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	leaddomain "github.com/opsdesk/salesdesk/internal/lead/domain"
	"github.com/opsdesk/salesdesk/internal/providers/manychat"
)

type manychatFieldUpdate struct {
	FieldID string `json:"fieldId"`
	Value   any    `json:"value"`
}

type manychatRequest struct {
	Action       string                `json:"action"`
	SubscriberID string                `json:"subscriberId"`
	Phone        string                `json:"phone"`
	FirstName    string                `json:"firstName"`
	LastName     string                `json:"lastName"`
	Email        string                `json:"email"`
	Fields       []manychat.Field      `json:"fields"`
	FieldID      string                `json:"fieldId"`
	FieldValue   any                   `json:"fieldValue"`
	Updates      []manychatFieldUpdate `json:"updates"`
}

// ManyChat multiplexes on the action field; requests without a known
// action fall through to the raw custom-field set the field-picker UI
// sends (subscriberId plus fieldId or updates).
func (s *Server) ManyChat(c *gin.Context) {
	var req manychatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid payload", nil)
		return
	}

	ctx := c.Request.Context()

	switch strings.TrimSpace(req.Action) {
	case "set-fields-by-name":
		if req.SubscriberID == "" || len(req.Fields) == 0 {
			apiError(c, http.StatusBadRequest, "subscriberId and fields are required", nil)
			return
		}
		resp, err := s.manychat.SetFieldsByName(ctx, req.SubscriberID, req.Fields)
		if err != nil {
			apiFail(c, err)
			return
		}
		apiOK(c, resp)

	case "find-user-by-phone":
		if strings.TrimSpace(req.Phone) == "" {
			apiError(c, http.StatusBadRequest, "phone is required", nil)
			return
		}
		resp, err := s.manychat.FindUserByPhone(ctx, req.Phone)
		if err != nil {
			apiFail(c, err)
			return
		}
		apiOK(c, resp)

	case "create-user":
		if strings.TrimSpace(req.Phone) == "" {
			apiError(c, http.StatusBadRequest, "phone is required", nil)
			return
		}
		resp, err := s.manychat.CreateUser(ctx, manychat.Subscriber{
			FirstName: strings.TrimSpace(req.FirstName),
			LastName:  strings.TrimSpace(req.LastName),
			Phone:     strings.TrimSpace(req.Phone),
			Email:     strings.TrimSpace(req.Email),
		})
		if err != nil {
			apiFail(c, err)
			return
		}
		apiOK(c, resp)

	case "":
		if req.SubscriberID == "" {
			apiError(c, http.StatusBadRequest, "subscriberId is required", nil)
			return
		}
		switch {
		case len(req.Updates) > 0:
			results := make([]any, 0, len(req.Updates))
			for _, update := range req.Updates {
				resp, err := s.manychat.SetCustomField(ctx, req.SubscriberID, update.FieldID, update.Value)
				if err != nil {
					apiFail(c, err)
					return
				}
				results = append(results, resp)
			}
			apiOK(c, results)
		case req.FieldID != "":
			resp, err := s.manychat.SetCustomField(ctx, req.SubscriberID, req.FieldID, req.FieldValue)
			if err != nil {
				apiFail(c, err)
				return
			}
			apiOK(c, resp)
		default:
			apiError(c, http.StatusBadRequest, "fieldId or updates is required", nil)
		}

	default:
		apiError(c, http.StatusBadRequest, "unknown action", req.Action)
	}
}

type aiSetterRequest struct {
	SubscriberID  string `json:"subscriberId"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Qualification string `json:"qualification"`
	SetterName    string `json:"setterName"`
	FBCLID        string `json:"fbclid"`
}

// AISetter records the bot's qualification answers against the lead
// and mirrors them into ManyChat custom fields so the human setter
// sees them in the chat sidebar. The field-name to field-id mapping
// comes from the hot-reloaded sales config.
func (s *Server) AISetter(c *gin.Context) {
	var req aiSetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid payload", nil)
		return
	}
	if strings.TrimSpace(req.Email) == "" && strings.TrimSpace(req.Phone) == "" {
		apiError(c, http.StatusBadRequest, "email or phone is required", nil)
		return
	}

	ctx := c.Request.Context()
	lead, err := s.leadSvc.Upsert(ctx, leaddomain.UpsertLeadRequest{
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.TrimSpace(req.Email),
		Phone:      strings.TrimSpace(req.Phone),
		ManyChatID: strings.TrimSpace(req.SubscriberID),
	})
	if err != nil {
		apiFail(c, err)
		return
	}

	pushed := 0
	if req.SubscriberID != "" {
		fieldMap := s.salesConfig.Get().ManyChatFields
		updates := map[string]any{
			"qualification": req.Qualification,
			"setter_name":   req.SetterName,
			"fbclid":        req.FBCLID,
		}
		for name, value := range updates {
			text, _ := value.(string)
			if strings.TrimSpace(text) == "" {
				continue
			}
			fieldID, ok := fieldMap[name]
			if !ok {
				continue
			}
			if _, err := s.manychat.SetCustomField(ctx, req.SubscriberID, fieldID, value); err != nil {
				apiFail(c, err)
				return
			}
			pushed++
		}
	}

	apiOK(c, gin.H{"lead_id": lead.ID.String(), "fields_pushed": pushed})
}
