package handlers

import (
	"time"

	intconfig "mahindaexpress/internal/config"
	"mahindaexpress/internal/http/middleware"
	"mahindaexpress/internal/mq"
	"mahindaexpress/internal/services"

	"github.com/gin-gonic/gin"
)

// Deps carries what handlers cannot pull from the config globals.
type Deps struct {
	Events        *mq.Publisher
	HoldTTL       time.Duration
	UploadDir     string
	GatewayURL    string
	GatewayKey    string
	WebhookSecret string
}

var deps Deps

// Configure wires handler dependencies at startup.
func Configure(d Deps) {
	deps = d
}

func holdSvc() services.HoldService {
	svc := services.HoldService{TTL: deps.HoldTTL}
	if intconfig.Redis != nil {
		svc.Redis = intconfig.Redis
	}
	return svc
}

func bookingSvc(c *gin.Context) services.BookingService {
	return services.BookingService{
		Holds:     holdSvc(),
		Events:    deps.Events,
		RequestID: middleware.GetRequestID(c),
	}
}

func paymentSvc(c *gin.Context) services.PaymentService {
	return services.PaymentService{
		Bookings:      bookingSvc(c),
		GatewayURL:    deps.GatewayURL,
		GatewayKey:    deps.GatewayKey,
		WebhookSecret: deps.WebhookSecret,
		RequestID:     middleware.GetRequestID(c),
	}
}
