package httpapi

import (
	"bytes"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weatherdesk/internal/app"
	"github.com/i474232898/weatherdesk/internal/export"
	"github.com/i474232898/weatherdesk/internal/prefs"
	"github.com/i474232898/weatherdesk/internal/store"
	"github.com/i474232898/weatherdesk/internal/weather"
)

var validate = validator.New()

// credentialTestTimeout bounds the synchronous API key probe.
const credentialTestTimeout = 15 * time.Second

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(fiberApp *fiber.App, ctrl *app.Controller) {
	v1 := fiberApp.Group("/api/v1")

	v1.Get("/status", func(c *fiber.Ctx) error {
		return c.JSON(ctrl.Status())
	})

	registerWeatherRoutes(v1.Group("/weather"), ctrl)
	registerSettingsRoutes(v1.Group("/settings"), ctrl)

	v1.Post("/location/detect", func(c *fiber.Ctx) error {
		place, ticket, err := ctrl.DetectLocation(c.UserContext())
		if err != nil {
			return domainError(err)
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"place":  place,
			"ticket": ticket,
		})
	})

	v1.Get("/favorites", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"favorites": ctrl.Preferences().FavoriteCities})
	})

	v1.Post("/favorites/toggle", func(c *fiber.Ctx) error {
		var req cityRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
		}
		added, err := ctrl.ToggleFavorite(req.City)
		if err != nil {
			return domainError(err)
		}
		return c.JSON(fiber.Map{
			"favorite":  added,
			"favorites": ctrl.Preferences().FavoriteCities,
		})
	})

	v1.Get("/history", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"history": ctrl.Preferences().SearchHistory})
	})

	v1.Delete("/history", func(c *fiber.Ctx) error {
		if err := ctrl.ClearHistory(); err != nil {
			return domainError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Get("/logs", func(c *fiber.Ctx) error {
		text, err := ctrl.Logs()
		if err != nil {
			return domainError(err)
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.SendString(text)
	})

	v1.Delete("/logs", func(c *fiber.Ctx) error {
		if err := ctrl.ClearLogs(); err != nil {
			return domainError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func registerWeatherRoutes(r fiber.Router, ctrl *app.Controller) {
	r.Post("/search", func(c *fiber.Ctx) error {
		var req cityRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		// the controller validates the city so rejections reach the status line and the log
		ticket, err := ctrl.Search(req.City)
		if err != nil {
			return domainError(err)
		}
		return c.Status(fiber.StatusAccepted).JSON(ticket)
	})

	r.Post("/refresh", func(c *fiber.Ctx) error {
		ticket, err := ctrl.Refresh()
		if err != nil {
			return domainError(err)
		}
		return c.Status(fiber.StatusAccepted).JSON(ticket)
	})

	r.Get("/current", func(c *fiber.Ctx) error {
		report, err := ctrl.Current()
		if err != nil {
			return domainError(err)
		}
		cur := report.Current
		return c.JSON(fiber.Map{
			"location":       cur.Location(),
			"units":          report.Units,
			"temp_unit":      report.Units.TemperatureLabel(),
			"speed_unit":     report.Units.SpeedLabel(),
			"wind_direction": cur.WindDirection(),
			"visibility_km":  cur.VisibilityKm(),
			"favorite":       ctrl.Preferences().IsFavorite(report.City),
			"fetched_at":     report.FetchedAt,
			"conditions":     cur,
		})
	})

	r.Get("/forecast", func(c *fiber.Ctx) error {
		view, err := ctrl.Daily()
		if err != nil {
			return domainError(err)
		}
		return c.JSON(view)
	})

	r.Get("/series", func(c *fiber.Ctx) error {
		view, err := ctrl.Series(c.Query("metric", string(weather.MetricTemperature)))
		if err != nil {
			return domainError(err)
		}
		return c.JSON(view)
	})

	r.Get("/icons/:code", func(c *fiber.Ctx) error {
		img, err := ctrl.Icon(c.UserContext(), c.Params("code"))
		if err != nil {
			return domainError(err)
		}
		c.Set(fiber.HeaderContentType, "image/png")
		return c.Send(img)
	})

	r.Get("/export", func(c *fiber.Ctx) error {
		format, err := export.ParseFormat(c.Query("format"))
		if err != nil {
			return domainError(err)
		}
		var buf bytes.Buffer
		if err := ctrl.Export(&buf, format); err != nil {
			return domainError(err)
		}
		c.Set(fiber.HeaderContentType, format.ContentType())
		c.Attachment(export.DefaultFilename(ctrl.CurrentCity(), time.Now(), format))
		return c.Send(buf.Bytes())
	})

	r.Post("/import", func(c *fiber.Ctx) error {
		report, err := ctrl.Import(bytes.NewReader(c.Body()))
		if err != nil {
			return domainError(err)
		}
		return c.JSON(fiber.Map{"city": report.City, "samples": len(report.Forecast)})
	})
}

func registerSettingsRoutes(r fiber.Router, ctrl *app.Controller) {
	r.Get("/", func(c *fiber.Ctx) error {
		p := ctrl.Preferences()
		theme, palette := ctrl.Palette()
		return c.JSON(fiber.Map{
			"has_api_key":      p.APIKey != "",
			"units":            p.Units,
			"theme":            theme,
			"palette":          palette,
			"custom_colors":    p.CustomColors,
			"active_api":       p.ActiveAPI,
			"auto_refresh":     p.AutoRefresh,
			"refresh_interval": p.RefreshInterval,
			"last_city":        p.LastCity,
		})
	})

	r.Put("/credential", func(c *fiber.Ctx) error {
		var req credentialRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		if err := ctrl.SetCredential(req.APIKey); err != nil {
			return domainError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/credential/test", func(c *fiber.Ctx) error {
		var req credentialRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		ctx, cancel := contextWithTimeout(c, credentialTestTimeout)
		defer cancel()
		if err := ctrl.TestCredential(ctx, req.APIKey); err != nil {
			return domainError(err)
		}
		return c.JSON(fiber.Map{"valid": true})
	})

	r.Put("/units", func(c *fiber.Ctx) error {
		var req unitsRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		if err := ctrl.SetUnits(weather.Units(req.Units)); err != nil {
			return domainError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Put("/theme", func(c *fiber.Ctx) error {
		var req themeRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		if err := ctrl.SetTheme(prefs.Theme(req.Theme)); err != nil {
			return domainError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Put("/colors", func(c *fiber.Ctx) error {
		var req colorRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		if err := ctrl.SetColor(prefs.Theme(req.Theme), req.Element, req.Color); err != nil {
			return domainError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Delete("/colors", func(c *fiber.Ctx) error {
		if err := ctrl.ResetColors(); err != nil {
			return domainError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Put("/refresh", func(c *fiber.Ctx) error {
		var req refreshRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		minutes, err := ctrl.SetAutoRefresh(req.Enabled, req.Interval)
		if err != nil {
			return domainError(err)
		}
		return c.JSON(fiber.Map{"enabled": req.Enabled, "interval": minutes})
	})
}

// domainError maps domain errors onto HTTP status codes.
func domainError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, weather.ErrCredentialRequired), errors.Is(err, weather.ErrUnauthorized):
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, weather.ErrCityNotFound), errors.Is(err, weather.ErrLocationUnknown):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, weather.ErrValidation), errors.Is(err, weather.ErrInvalidMetric):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, weather.ErrMalformedResponse):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, weather.ErrNetwork), errors.Is(err, weather.ErrUpstream):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
