// Package router wires the HTTP surface: route handlers, the access
// guards in front of them and the HTML pages they render.
package router

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/thoas/go-funk"
	"go.uber.org/zap"

	"github.com/ndsmnv/tinylink/internal/auth"
	"github.com/ndsmnv/tinylink/internal/authenticator"
	"github.com/ndsmnv/tinylink/internal/db/storage"
	"github.com/ndsmnv/tinylink/internal/gzippedhttp"
	"github.com/ndsmnv/tinylink/internal/logger"
	"github.com/ndsmnv/tinylink/internal/models"
	"github.com/ndsmnv/tinylink/internal/service"
	"github.com/ndsmnv/tinylink/internal/user"
)

//go:embed templates/*.gohtml
var templatesFS embed.FS

// Router holds the dependencies shared by all route handlers.
type Router struct {
	db        storage.Storage
	svc       *service.Service
	auth      authenticator.Authenticator
	templates *template.Template
}

// New mounts every route of the service onto a chi router.
// The session is resolved once per request by the auth middleware;
// guards and handlers read it from the request context only.
func New(
	db storage.Storage,
	svc *service.Service,
	theAuth authenticator.Authenticator,
) *chi.Mux {
	myRouter := &Router{
		db:        db,
		svc:       svc,
		auth:      theAuth,
		templates: template.Must(template.ParseFS(templatesFS, "templates/*.gohtml")),
	}

	router := chi.NewRouter()
	router.Use(
		logger.WithLoggingHTTPMiddleware,
		gzippedhttp.GzipResponse,
		theAuth.ResolveUser,
	)

	router.Get(`/`, myRouter.GetRoot)
	router.Get(`/hello`, myRouter.GetHello)

	router.Get(`/login`, myRouter.GetLoginform)
	router.Post(`/login`, myRouter.PostLogin)
	router.Get(`/register`, myRouter.GetRegisterform)
	router.Post(`/register`, myRouter.PostRegister)
	router.Post(`/logout`, myRouter.PostLogout)

	router.Get(`/u/{id}`, myRouter.GetRedirecttofullurl)
	router.Get(`/urls.json`, myRouter.GetUrlsjson)

	router.Route(`/urls`, func(r chi.Router) {
		r.Use(myRouter.requireAuthenticated)
		r.Get(`/`, myRouter.GetUrlsindex)
		r.Post(`/`, myRouter.PostUrls)
		r.Get(`/new`, myRouter.GetUrlsnew)
		r.Get(`/{id}`, myRouter.GetUrlsshow)
		r.With(myRouter.requireOwnership).Post(`/{id}/delete`, myRouter.PostUrlsdelete)
	})

	return router
}

// requireAuthenticated passes only requests whose session resolves to a
// user that still exists in the directory. A stale cookie surviving a
// process restart fails here, not in the session middleware.
func (rt *Router) requireAuthenticated(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		userID := auth.UserIDFromContext(request.Context())
		if userID == "" {
			writeHTMLError(response, http.StatusForbidden, "Please log in to access this page.")
			return
		}

		_, found, err := rt.db.FindUserByID(request.Context(), userID)
		if err != nil {
			logger.Log.Debugln("Error calling the `rt.db.FindUserByID()`: ", zap.Error(err))
			response.WriteHeader(http.StatusInternalServerError)
			return
		}
		if !found {
			writeHTMLError(response, http.StatusForbidden, "Please log in to access this page.")
			return
		}

		h.ServeHTTP(response, request)
	}

	return http.HandlerFunc(middleware)
}

// requireOwnership passes only when the target entry exists and is owned
// by the session user. Unknown and foreign entries are equally forbidden,
// so the guard leaks nothing about other users' short codes.
func (rt *Router) requireOwnership(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		userID := auth.UserIDFromContext(request.Context())
		short := chi.URLParam(request, "id")

		entry, found, err := rt.db.FindURLByID(request.Context(), short)
		if err != nil {
			logger.Log.Debugln("Error calling the `rt.db.FindURLByID()`: ", zap.Error(err))
			response.WriteHeader(http.StatusInternalServerError)
			return
		}
		if !found || entry.OwnerID != userID {
			writeHTMLError(response, http.StatusForbidden, "You do not have permission to access this URL.")
			return
		}

		h.ServeHTTP(response, request)
	}

	return http.HandlerFunc(middleware)
}

// GetRoot greets like the very first iteration of the service did.
func (rt *Router) GetRoot(response http.ResponseWriter, request *http.Request) {
	_, _ = response.Write([]byte("Hello!"))
}

// GetHello serves the static hello page.
func (rt *Router) GetHello(response http.ResponseWriter, request *http.Request) {
	response.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = response.Write([]byte("<html><body>Hello <b>World</b></body></html>\n"))
}

// GetLoginform renders the login form, or redirects straight to the URL
// listing when the caller is already authenticated.
func (rt *Router) GetLoginform(response http.ResponseWriter, request *http.Request) {
	if rt.sessionUser(request) != nil {
		http.Redirect(response, request, "/urls", http.StatusFound)
		return
	}

	rt.render(response, "login.gohtml", nil)
}

// GetRegisterform renders the registration form, or redirects to the URL
// listing when the caller is already authenticated.
func (rt *Router) GetRegisterform(response http.ResponseWriter, request *http.Request) {
	if rt.sessionUser(request) != nil {
		http.Redirect(response, request, "/urls", http.StatusFound)
		return
	}

	rt.render(response, "register.gohtml", nil)
}

// PostRegister creates a user, opens a session for it and redirects to the
// URL listing.
func (rt *Router) PostRegister(response http.ResponseWriter, request *http.Request) {
	email := request.FormValue("email")
	password := request.FormValue("password")

	usr, err := rt.svc.RegisterUser(request.Context(), email, password)
	if errors.Is(err, models.ErrValidation) {
		writeHTMLError(response, http.StatusBadRequest, "Email and password cannot be empty.")
		return
	}
	if errors.Is(err, models.ErrDuplicateEmail) {
		writeHTMLError(response, http.StatusBadRequest, "Email already registered.")
		return
	}
	if err != nil {
		logger.Log.Debugln("Error calling the `rt.svc.RegisterUser()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}

	if err := rt.auth.IssueSession(response, usr.ID); err != nil {
		logger.Log.Debugln("Error calling the `rt.auth.IssueSession()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}

	http.Redirect(response, request, "/urls", http.StatusFound)
}

// PostLogin verifies the credentials and opens a session.
func (rt *Router) PostLogin(response http.ResponseWriter, request *http.Request) {
	email := request.FormValue("email")
	password := request.FormValue("password")

	usr, err := rt.svc.AuthenticateUser(request.Context(), email, password)
	if errors.Is(err, models.ErrInvalidCredentials) {
		writeHTMLError(response, http.StatusForbidden, "Invalid email or password")
		return
	}
	if err != nil {
		logger.Log.Debugln("Error calling the `rt.svc.AuthenticateUser()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}

	if err := rt.auth.IssueSession(response, usr.ID); err != nil {
		logger.Log.Debugln("Error calling the `rt.auth.IssueSession()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}

	http.Redirect(response, request, "/urls", http.StatusFound)
}

// PostLogout clears the session cookie and redirects to the login form.
func (rt *Router) PostLogout(response http.ResponseWriter, request *http.Request) {
	rt.auth.ClearSession(response)
	http.Redirect(response, request, "/login", http.StatusFound)
}

// PostUrls shortens the submitted URL for the session user and redirects
// to the detail page of the new entry.
func (rt *Router) PostUrls(response http.ResponseWriter, request *http.Request) {
	userID := auth.UserIDFromContext(request.Context())

	entry, err := rt.svc.ShortenURL(request.Context(), request.FormValue("longURL"), userID)
	if errors.Is(err, models.ErrValidation) {
		writeHTMLError(response, http.StatusBadRequest, "The long URL cannot be empty.")
		return
	}
	if err != nil {
		logger.Log.Debugln("Error calling the `rt.svc.ShortenURL()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}

	http.Redirect(response, request, "/urls/"+entry.ID, http.StatusFound)
}

// PostUrlsdelete removes the entry and redirects back to the listing.
// The ownership guard has already run.
func (rt *Router) PostUrlsdelete(response http.ResponseWriter, request *http.Request) {
	if err := rt.svc.DeleteURL(request.Context(), chi.URLParam(request, "id")); err != nil {
		logger.Log.Debugln("Error calling the `rt.svc.DeleteURL()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}

	http.Redirect(response, request, "/urls", http.StatusFound)
}

type urlRow struct {
	Short    string
	ShortURL string
	LongURL  string
}

// GetUrlsindex renders the session user's own entries only.
func (rt *Router) GetUrlsindex(response http.ResponseWriter, request *http.Request) {
	usr := rt.sessionUser(request)

	entries, err := rt.svc.UserURLs(request.Context(), usr.ID)
	if err != nil {
		logger.Log.Debugln("Error calling the `rt.svc.UserURLs()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}

	shorts := funk.Keys(entries).([]string)
	sort.Strings(shorts)

	rows := make([]urlRow, 0, len(shorts))
	for _, short := range shorts {
		rows = append(rows, urlRow{
			Short:    short,
			ShortURL: rt.svc.ShortURL(short),
			LongURL:  entries[short].LongURL,
		})
	}

	rt.render(response, "urls_index.gohtml", struct {
		User *user.User
		URLs []urlRow
	}{usr, rows})
}

// GetUrlsnew renders the URL creation form.
func (rt *Router) GetUrlsnew(response http.ResponseWriter, request *http.Request) {
	rt.render(response, "urls_new.gohtml", struct {
		User *user.User
	}{rt.sessionUser(request)})
}

// GetUrlsshow renders the detail page of a single entry. Unknown short
// codes yield 404; entries owned by another user yield 403.
func (rt *Router) GetUrlsshow(response http.ResponseWriter, request *http.Request) {
	usr := rt.sessionUser(request)
	short := chi.URLParam(request, "id")

	entry, err := rt.svc.GetURL(request.Context(), short)
	if errors.Is(err, models.ErrNotFound) {
		writeHTMLError(response, http.StatusNotFound, "URL not found")
		return
	}
	if err != nil {
		logger.Log.Debugln("Error calling the `rt.svc.GetURL()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}
	if entry.OwnerID != usr.ID {
		writeHTMLError(response, http.StatusForbidden, "You do not have permission to view this URL.")
		return
	}

	rt.render(response, "urls_show.gohtml", struct {
		User     *user.User
		Short    string
		ShortURL string
		LongURL  string
	}{usr, short, rt.svc.ShortURL(short), entry.LongURL})
}

// GetRedirecttofullurl is the public redirect: anyone holding a short code
// is sent to its destination.
func (rt *Router) GetRedirecttofullurl(response http.ResponseWriter, request *http.Request) {
	entry, err := rt.svc.GetURL(request.Context(), chi.URLParam(request, "id"))
	if errors.Is(err, models.ErrNotFound) {
		writeHTMLError(response, http.StatusNotFound, "Short URL not found")
		return
	}
	if err != nil {
		logger.Log.Debugln("Error calling the `rt.svc.GetURL()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}

	http.Redirect(response, request, entry.LongURL, http.StatusTemporaryRedirect)
}

// GetUrlsjson dumps the whole store as JSON. Debug-only endpoint kept from
// the earliest iteration; it carries no auth on purpose.
func (rt *Router) GetUrlsjson(response http.ResponseWriter, request *http.Request) {
	entries, err := rt.svc.AllURLs(request.Context())
	if err != nil {
		logger.Log.Debugln("Error calling the `rt.svc.AllURLs()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}

	response.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(response).Encode(entries); err != nil {
		logger.Log.Debugln("Error encoding the URL entries: ", zap.Error(err))
	}
}

// sessionUser returns the live user behind the current session,
// or nil for anonymous requests and stale cookies.
func (rt *Router) sessionUser(request *http.Request) *user.User {
	userID := auth.UserIDFromContext(request.Context())
	if userID == "" {
		return nil
	}

	usr, found, err := rt.db.FindUserByID(request.Context(), userID)
	if err != nil || !found {
		return nil
	}

	return usr
}

func (rt *Router) render(response http.ResponseWriter, name string, data interface{}) {
	response.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := rt.templates.ExecuteTemplate(response, name, data); err != nil {
		logger.Log.Debugln("Error rendering the template: ", zap.Error(err))
	}
}

func writeHTMLError(response http.ResponseWriter, statusCode int, message string) {
	response.Header().Set("Content-Type", "text/html; charset=utf-8")
	response.WriteHeader(statusCode)
	_, _ = response.Write([]byte(fmt.Sprintf("<html><body>%s</body></html>", message)))
}
