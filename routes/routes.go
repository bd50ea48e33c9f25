// Package routes assembles the chi router: public reads, authenticated
// score submission and admin-only league management.
package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/robtee24/tee24-winterleague-sub000/handlers"
	"github.com/robtee24/tee24-winterleague-sub000/middleware"
	"github.com/robtee24/tee24-winterleague-sub000/models"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Auth        *handlers.AuthHandler
	League      *handlers.LeagueHandler
	Player      *handlers.PlayerHandler
	Team        *handlers.TeamHandler
	Score       *handlers.ScoreHandler
	Match       *handlers.MatchHandler
	Handicap    *handlers.HandicapHandler
	Leaderboard *handlers.LeaderboardHandler
	WebSocket   *handlers.WebSocketHandler
}

func SetupRoutes(h Handlers, jwtSecret string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	authenticated := middleware.Authenticate(jwtSecret)
	adminOnly := middleware.Authorize(models.RoleAdmin)
	anyRole := middleware.Authorize(models.RoleAdmin, models.RolePlayer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/login", h.Auth.Login)
		r.With(authenticated).Get("/auth/me", h.Auth.Me)
		r.With(authenticated, adminOnly).Put("/users/{userID}/role", h.Auth.UpdateRole)

		// Live updates, one room per league.
		r.Get("/ws/leagues/{leagueID}", h.WebSocket.ServeLeague)

		r.Route("/leagues", func(r chi.Router) {
			r.Get("/", h.League.List)
			r.With(authenticated, adminOnly).Post("/", h.League.Create)

			r.Route("/{leagueID}", func(r chi.Router) {
				r.Get("/", h.League.Get)
				r.With(authenticated, adminOnly).Delete("/", h.League.Delete)

				r.Get("/weeks", h.League.ListWeeks)

				r.Get("/players", h.Player.ListByLeague)
				r.With(authenticated, adminOnly).Post("/players", h.Player.Create)

				r.Get("/teams", h.Team.ListByLeague)
				r.With(authenticated, adminOnly).Post("/teams", h.Team.Create)

				r.Get("/matches", h.Match.ListByLeague)
				r.With(authenticated, adminOnly).Post("/matches", h.Match.Create)
				r.With(authenticated, adminOnly).Post("/schedule", h.Match.GenerateSeason)

				r.Get("/weeks/{weekNumber}/scores", h.Score.ListByWeek)
				r.Get("/weeks/{weekNumber}/matches", h.Match.ListByWeek)
				r.Get("/weeks/{weekNumber}/leaderboard", h.Leaderboard.WeekLeaderboard)
				r.Get("/weeks/{weekNumber}/status", h.Handicap.WeekStatus)
				r.With(authenticated, adminOnly).Post("/weeks/{weekNumber}/recalculate", h.Match.RecalculateWeek)

				r.Get("/handicaps", h.Handicap.ListByLeague)
				r.With(authenticated, adminOnly).Post("/handicaps/recalculate", h.Handicap.Recalculate)

				r.Get("/standings", h.Leaderboard.SeasonStandings)
				r.Get("/standings/teams", h.Leaderboard.TeamStandings)
			})
		})

		r.Route("/players/{playerID}", func(r chi.Router) {
			r.Get("/", h.Player.Get)
			r.With(authenticated, adminOnly).Delete("/", h.Player.Delete)
		})

		r.Route("/teams/{teamID}", func(r chi.Router) {
			r.Get("/", h.Team.Get)
			r.With(authenticated, adminOnly).Delete("/", h.Team.Delete)
		})

		r.With(authenticated, adminOnly).Delete("/matches/{matchID}", h.Match.Delete)

		r.Route("/weeks/{weekID}/scores", func(r chi.Router) {
			r.With(authenticated, anyRole).Post("/", h.Score.Submit)
		})

		r.Route("/scores/{scoreID}", func(r chi.Router) {
			r.Get("/", h.Score.Get)
			r.With(authenticated, anyRole).Post("/card", h.Score.UploadCardImage)
		})
	})

	return r
}
