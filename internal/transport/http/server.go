package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/fleetimee/solid-spoon/internal/domain/models"
	"github.com/fleetimee/solid-spoon/internal/lib/logger/sl"
	"github.com/fleetimee/solid-spoon/internal/metrics"
	roomservice "github.com/fleetimee/solid-spoon/internal/services/room_service"
	"github.com/fleetimee/solid-spoon/internal/storage"
	"github.com/fleetimee/solid-spoon/internal/transport/http/dto"
	"github.com/fleetimee/solid-spoon/internal/transport/http/dto/request"
	"github.com/fleetimee/solid-spoon/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	_ "github.com/fleetimee/solid-spoon/docs"
)

type UserService interface {
	Login(ctx context.Context, email, password string) (*models.TokenPair, error)
	RegisterUser(ctx context.Context, input dto.UserRegisterInput) (uuid.UUID, error)
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
	GetUserById(ctx context.Context, userID uuid.UUID) (models.User, error)
}

type AuthService interface {
	RefreshTokens(ctx context.Context, refreshToken string) (*models.TokenPair, error)
}

type MediaService interface {
	UploadImage(ctx context.Context, file *multipart.FileHeader) (string, error)
	DeleteImage(ctx context.Context, fileURL string) error
}

type RoomService interface {
	CreateRoom(ctx context.Context, input dto.CreateRoomInput) (*models.Room, error)
	ListRooms(ctx context.Context, filter models.RoomFilter) ([]models.Room, error)
	GetRoomByID(ctx context.Context, id int64) (*models.Room, error)
	GetRoomBySlug(ctx context.Context, slug string) (*models.Room, error)
}

type NavigationService interface {
	GetNavigation(ctx context.Context) ([]models.NavigationMain, error)
}

type SettingsService interface {
	GetAppSettings(ctx context.Context) (models.AppSettings, error)
}

type Routers struct {
	log               *slog.Logger
	UserService       UserService
	AuthService       AuthService
	MediaService      MediaService
	RoomService       RoomService
	NavigationService NavigationService
	SettingsService   SettingsService
}

func NewRouter(
	log *slog.Logger,
	userService UserService,
	authService AuthService,
	mediaService MediaService,
	roomService RoomService,
	navigationService NavigationService,
	settingsService SettingsService,
) *Routers {
	return &Routers{
		log:               log,
		UserService:       userService,
		AuthService:       authService,
		MediaService:      mediaService,
		RoomService:       roomService,
		NavigationService: navigationService,
		SettingsService:   settingsService,
	}
}

// Login godoc
// @Summary Authenticate a back-office user
// @Description Logs in with email and password, returns a JWT pair and opens a session.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Login credentials"
// @Success 200 {object} response.Response{data=map[string]string} "Token pair"
// @Failure 400 {object} response.ErrorResponse "Invalid request format"
// @Failure 401 {object} response.ErrorResponse "Authentication failed"
// @Router /api/v1/login [post]
func (r *Routers) Login(c echo.Context) error {
	const op = "http.routers.Login"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.LoginRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("invalid format request", slog.String("email", req.Email))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	tokens, err := r.UserService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		log.Warn("login failed", sl.Err(err))
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	sess, _ := session.Get("session", c)
	sess.Values["user_id"] = tokens.UserID
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		log.Error("failed to save session", sl.Err(err))
	}

	return c.JSON(http.StatusOK, response.Response{
		Status: "success",
		Data: map[string]string{
			"user_id":       tokens.UserID,
			"access_token":  tokens.AccessToken,
			"refresh_token": tokens.RefreshToken,
		},
	})
}

// Register godoc
// @Summary Register a back-office account
// @Description Creates an account and returns its ID.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.UserRegisterInput true "Registration data"
// @Success 201 {object} response.Response{data=object{user_id=string}} "Account created"
// @Failure 400 {object} response.ErrorResponse "Invalid request format"
// @Failure 409 {object} response.ErrorResponse "User already exists"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /api/v1/register [post]
func (r *Routers) Register(c echo.Context) error {
	const op = "http.routers.Register"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.UserRegisterInput

	if err := c.Bind(&req); err != nil {
		log.Error("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		return c.JSON(http.StatusBadRequest,
			response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	userID, err := r.UserService.RegisterUser(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			log.Warn("user already exists", slog.String("email", req.Email))
			return c.JSON(http.StatusConflict, response.ErrUserAlreadyExists)
		}

		log.Error("registration failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	log.Info("user registered successfully", slog.String("user_id", userID.String()))

	return c.JSON(http.StatusCreated, response.Response{
		Status: "success",
		Data: map[string]uuid.UUID{
			"user_id": userID,
		},
	})
}

// Refresh godoc
// @Summary Rotate a refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} models.TokenPair
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /api/v1/refresh [post]
func (r *Routers) Refresh(c echo.Context) error {
	const op = "http.routers.Refresh"

	log := r.log.With(
		slog.String("op", op),
	)

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("validation bind", sl.Err(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}

	newTokens, err := r.AuthService.RefreshTokens(c.Request().Context(), req.RefreshToken)
	if err != nil {
		log.Error("error refresh tokens", sl.Err(err))
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}

	return c.JSON(http.StatusOK, newTokens)
}

// UploadFile godoc
// @Summary Upload a room image
// @Description Accepts one image via multipart form, compresses it and stores it in the object store.
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file (jpeg, png or webp)"
// @Success 200 {object} dto.UploadResponse "Public URL of the stored image"
// @Failure 400 {object} response.ErrorResponse "Missing file"
// @Failure 413 {object} response.ErrorResponse "File too large"
// @Failure 415 {object} response.ErrorResponse "Unsupported file type"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Security ApiKeyAuth
// @Router /api/v1/uploads [post]
func (r *Routers) UploadFile(c echo.Context) error {
	const op = "http.routers.UploadFile"

	log := r.log.With(
		slog.String("op", op),
	)

	file, err := c.FormFile("file")
	if err != nil {
		log.Warn("empty file in request", sl.Err(err))
		return c.JSON(http.StatusBadRequest,
			response.ErrorResponseWithDetails("invalid_request", "File is required"))
	}

	url, err := r.MediaService.UploadImage(c.Request().Context(), file)
	if err != nil {
		metrics.ImageUploadsTotal.WithLabelValues("failure").Inc()

		switch {
		case errors.Is(err, storage.ErrFileTooLarge):
			return c.JSON(http.StatusRequestEntityTooLarge,
				response.ErrorResponseWithDetails("file_too_large", "File exceeds the size limit"))
		case errors.Is(err, storage.ErrInvalidFileType):
			return c.JSON(http.StatusUnsupportedMediaType,
				response.ErrorResponseWithDetails("unsupported_type", "Only jpeg, png and webp images are accepted"))
		}

		log.Error("upload failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	metrics.ImageUploadsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, dto.UploadResponse{FileURL: url})
}

// DeleteFile godoc
// @Summary Delete an uploaded image
// @Description Removes the object behind a previously returned file URL.
// @Tags uploads
// @Accept json
// @Produce json
// @Param request body dto.DeleteFileRequest true "File URL to delete"
// @Success 200 {object} dto.DeleteFileResponse
// @Failure 400 {object} response.ErrorResponse "Invalid request format"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Security ApiKeyAuth
// @Router /api/v1/uploads [delete]
func (r *Routers) DeleteFile(c echo.Context) error {
	const op = "http.routers.DeleteFile"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.DeleteFileRequest

	if err := c.Bind(&req); err != nil {
		log.Error("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest,
			response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	if err := r.MediaService.DeleteImage(c.Request().Context(), req.FileURL); err != nil {
		log.Error("delete failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, dto.DeleteFileResponse{
		Success: true,
		Message: "File deleted",
	})
}

// CreateRoom godoc
// @Summary Create a meeting room
// @Description Creates a room together with its image rows in one transaction. Images must be uploaded beforehand; their URLs come in as repeated imageUrls fields, cover_<i> flags mark the cover position.
// @Tags rooms
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Room name (unique)"
// @Param location formData string true "Location"
// @Param capacity formData integer true "Capacity, 1 to 1000"
// @Param description formData string false "Description"
// @Param facilities formData []string false "Facilities" collectionFormat(multi)
// @Param imageUrls formData []string true "Uploaded image URLs in order" collectionFormat(multi)
// @Success 201 {object} dto.CreateRoomResponse
// @Failure 400 {object} dto.CreateRoomResponse "Field errors"
// @Failure 409 {object} dto.CreateRoomResponse "Duplicate room name"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Security ApiKeyAuth
// @Router /api/v1/admin/rooms [post]
func (r *Routers) CreateRoom(c echo.Context) error {
	const op = "http.routers.CreateRoom"

	log := r.log.With(
		slog.String("op", op),
	)

	input, err := r.parseCreateRoomInput(c)
	if err != nil {
		log.Warn("error parsing form", sl.Err(err))
		return c.JSON(http.StatusBadRequest, dto.CreateRoomResponse{
			Success: false,
			Message: "Invalid form data",
		})
	}

	room, err := r.RoomService.CreateRoom(c.Request().Context(), *input)
	if err != nil {
		var verr *roomservice.ValidationError
		switch {
		case errors.As(err, &verr):
			return c.JSON(http.StatusBadRequest, dto.CreateRoomResponse{
				Success:     false,
				Message:     "Validation failed",
				FieldErrors: verr.Fields,
			})
		case errors.Is(err, storage.ErrNoImages):
			return c.JSON(http.StatusBadRequest, dto.CreateRoomResponse{
				Success: false,
				Message: "At least one image is required",
			})
		case errors.Is(err, storage.ErrRoomExists):
			return c.JSON(http.StatusConflict, dto.CreateRoomResponse{
				Success: false,
				Message: "A room with this name already exists",
			})
		}

		log.Error("failed to create room", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	metrics.RoomsCreatedTotal.Inc()

	log.Info("room created",
		slog.Int64("room_id", room.ID),
		slog.String("slug", room.Slug),
	)

	return c.JSON(http.StatusCreated, dto.CreateRoomResponse{
		Success: true,
		Message: "Room created",
		Room:    room,
	})
}

// ListRooms godoc
// @Summary List meeting rooms
// @Description Returns active rooms matching all supplied filters, each with its effective cover image.
// @Tags rooms
// @Produce json
// @Param search query string false "Match against name or description"
// @Param location query string false "Location substring"
// @Param minCapacity query int false "Minimum capacity"
// @Param maxCapacity query int false "Maximum capacity"
// @Param facilities query []string false "Facilities, any match qualifies" collectionFormat(multi)
// @Success 200 {object} dto.RoomListResponse
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/rooms [get]
func (r *Routers) ListRooms(c echo.Context) error {
	const op = "http.routers.ListRooms"

	log := r.log.With(
		slog.String("op", op),
	)

	filter := models.RoomFilter{
		Search:     strings.TrimSpace(c.QueryParam("search")),
		Location:   strings.TrimSpace(c.QueryParam("location")),
		Facilities: c.QueryParams()["facilities"],
	}

	if v := c.QueryParam("minCapacity"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.MinCapacity = &n
		}
	}
	if v := c.QueryParam("maxCapacity"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.MaxCapacity = &n
		}
	}

	rooms, err := r.RoomService.ListRooms(c.Request().Context(), filter)
	if err != nil {
		log.Error("failed to list rooms", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, dto.RoomListResponse{
		Data: rooms,
		Meta: map[string]interface{}{
			"count": len(rooms),
		},
	})
}

// GetRoom godoc
// @Summary Get a room by ID
// @Tags rooms
// @Produce json
// @Param id path int true "Room ID"
// @Success 200 {object} response.Response{data=models.Room}
// @Failure 400 {object} response.ErrorResponse "Invalid ID"
// @Failure 404 {object} response.ErrorResponse "Room not found"
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/rooms/{id} [get]
func (r *Routers) GetRoom(c echo.Context) error {
	const op = "http.routers.GetRoom"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest,
			response.ErrorResponseWithDetails("invalid_request", "invalid room ID format"))
	}

	room, err := r.RoomService.GetRoomByID(c.Request().Context(), id)
	if err != nil {
		log.Error("failed to get room", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}
	if room == nil {
		return c.JSON(http.StatusNotFound, response.ErrRoomNotFound)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(room))
}

// GetRoomBySlug godoc
// @Summary Get a room by slug
// @Description Returns the room detail with its full ordered image list, cover first.
// @Tags rooms
// @Produce json
// @Param slug path string true "Room slug"
// @Success 200 {object} response.Response{data=models.Room}
// @Failure 404 {object} response.ErrorResponse "Room not found"
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/rooms/slug/{slug} [get]
func (r *Routers) GetRoomBySlug(c echo.Context) error {
	const op = "http.routers.GetRoomBySlug"

	log := r.log.With(
		slog.String("op", op),
	)

	room, err := r.RoomService.GetRoomBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		log.Error("failed to get room", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}
	if room == nil {
		return c.JSON(http.StatusNotFound, response.ErrRoomNotFound)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(room))
}

// GetNavigation godoc
// @Summary Sidebar navigation
// @Description Returns the navigation sections with nested items, ordered for rendering.
// @Tags dashboard
// @Produce json
// @Success 200 {object} response.Response{data=[]models.NavigationMain}
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/navigation [get]
func (r *Routers) GetNavigation(c echo.Context) error {
	const op = "http.routers.GetNavigation"

	log := r.log.With(
		slog.String("op", op),
	)

	nav, err := r.NavigationService.GetNavigation(c.Request().Context())
	if err != nil {
		log.Error("failed to load navigation", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(nav))
}

// GetSettings godoc
// @Summary Application settings
// @Description Returns dashboard branding resolved from the lookup table with defaults.
// @Tags dashboard
// @Produce json
// @Success 200 {object} response.Response{data=models.AppSettings}
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/settings [get]
func (r *Routers) GetSettings(c echo.Context) error {
	const op = "http.routers.GetSettings"

	log := r.log.With(
		slog.String("op", op),
	)

	settings, err := r.SettingsService.GetAppSettings(c.Request().Context())
	if err != nil {
		log.Error("failed to load settings", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(settings))
}

// IsAdminPermission godoc
// @Summary Check admin status
// @Tags users
// @Produce json
// @Param user_id path string true "User UUID" format(uuid)
// @Success 200 {object} map[string]bool
// @Failure 400 {object} response.ErrorResponse "Invalid UUID"
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/users/{user_id}/is-admin [get]
func (r *Routers) IsAdminPermission(c echo.Context) error {
	const op = "http.routers.IsAdminPermission"

	log := r.log.With(
		slog.String("op", op),
	)

	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		log.Error("error parse uuid", sl.Err(err))
		return c.JSON(http.StatusBadRequest,
			response.ErrorResponseWithDetails("invalid_request", "invalid user ID format"))
	}

	isAdmin, err := r.UserService.IsAdmin(c.Request().Context(), userID)
	if err != nil {
		log.Error("failed to check admin status", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, map[string]bool{
		"is_admin": isAdmin,
	})
}

func (r *Routers) parseCreateRoomInput(c echo.Context) (*dto.CreateRoomInput, error) {
	// FormParams handles urlencoded and multipart submissions alike.
	params, err := c.FormParams()
	if err != nil {
		return nil, err
	}

	capacity := 0
	if v := c.FormValue("capacity"); v != "" {
		capacity, err = strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid capacity: %w", err)
		}
	}

	input := &dto.CreateRoomInput{
		Name:        strings.TrimSpace(c.FormValue("name")),
		Location:    strings.TrimSpace(c.FormValue("location")),
		Capacity:    capacity,
		Description: strings.TrimSpace(c.FormValue("description")),
		Facilities:  params["facilities"],
		ImageURLs:   params["imageUrls"],
	}

	input.CoverFlags = make(map[int]bool)
	for i := range input.ImageURLs {
		if c.FormValue(fmt.Sprintf("cover_%d", i)) == "true" {
			input.CoverFlags[i] = true
		}
	}

	if sess, err := session.Get("session", c); err == nil {
		if raw, ok := sess.Values["user_id"].(string); ok {
			if actorID, err := uuid.Parse(raw); err == nil {
				input.ActorID = actorID
			}
		}
	}

	return input, nil
}
