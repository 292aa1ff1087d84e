package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"task-tracker/internal/model"
	"task-tracker/internal/service"
)

// User-facing messages follow the product's language.
const (
	msgUserCreated        = "Usuario creado exitosamente"
	msgInvalidCredentials = "Credenciales inválidas"
	msgMissingFields      = "El nombre de usuario y la contraseña son obligatorios"
	msgUsernameTaken      = "El nombre de usuario ya está en uso"
	msgInvalidBody        = "Cuerpo de la petición inválido"
	msgInternal           = "Error interno del servidor"
)

const bodyMaxSize = 1 << 20

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, creds Credentials, auth Authenticator, tasks Tasks, health Pinger, logger *log.Logger) {
	e.POST("/login", login(creds, logger))
	e.POST("/register", register(creds, logger))
	e.GET("/healthz", healthz(health))

	g := e.Group("/api", TokenAuth(auth))
	g.GET("/tasks", listTasks(tasks))
	g.POST("/tasks", createTask(tasks, logger))
	g.GET("/tasks/:id", getTask(tasks))
	g.PUT("/tasks/:id", updateTask(tasks, logger))
	g.DELETE("/tasks/:id", deleteTask(tasks))
}

func decodeBody(c echo.Context, dst any) error {
	lr := io.LimitReader(c.Request().Body, bodyMaxSize)
	return sonic.ConfigStd.NewDecoder(lr).Decode(dst)
}

func login(creds Credentials, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req credentialsRequest
		if err := decodeBody(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: msgInvalidBody})
		}

		sess, err := creds.Login(c.Request().Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				return c.JSON(http.StatusUnauthorized, errorResponse{Error: msgInvalidCredentials})
			}
			logger.WithError(err).Error("login failed")
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: msgInternal})
		}

		return c.JSON(http.StatusOK, sessionResponse{
			Token:    sess.Token,
			UserID:   sess.UserID,
			Username: sess.Username,
		})
	}
}

func register(creds Credentials, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req credentialsRequest
		if err := decodeBody(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: msgInvalidBody})
		}

		sess, err := creds.Register(c.Request().Context(), req.Username, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrMissingCredentials):
				return c.JSON(http.StatusBadRequest, errorResponse{Error: msgMissingFields})
			case errors.Is(err, service.ErrUsernameTaken):
				return c.JSON(http.StatusBadRequest, errorResponse{Error: msgUsernameTaken})
			}
			logger.WithError(err).Error("register failed")
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: msgInternal})
		}

		return c.JSON(http.StatusCreated, registerResponse{
			Message:  msgUserCreated,
			Token:    sess.Token,
			UserID:   sess.UserID,
			Username: sess.Username,
		})
	}
}

func healthz(health Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := health.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "storage unavailable"})
		}
		return c.NoContent(http.StatusOK)
	}
}

func listTasks(tasks Tasks) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := userFromContext(c)

		status := model.Status(c.QueryParam("status"))
		list, err := tasks.List(c.Request().Context(), user.ID, status)
		if err != nil {
			if errors.Is(err, service.ErrInvalidStatus) {
				return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			}
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: msgInternal})
		}
		if list == nil {
			list = []model.Task{}
		}
		return c.JSON(http.StatusOK, list)
	}
}

func createTask(tasks Tasks, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := userFromContext(c)

		var req taskRequest
		if err := decodeBody(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: msgInvalidBody})
		}

		task, err := tasks.Create(c.Request().Context(), user.ID, taskInputFromRequest(req))
		if err != nil {
			if isValidationError(err) {
				return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			}
			logger.WithError(err).Error("create task failed")
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: msgInternal})
		}
		return c.JSON(http.StatusCreated, task)
	}
}

func getTask(tasks Tasks) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := userFromContext(c)

		taskID, ok := taskIDParam(c)
		if !ok {
			return c.JSON(http.StatusNotFound, errorResponse{Error: service.ErrNotFound.Error()})
		}

		task, err := tasks.Get(c.Request().Context(), user.ID, taskID)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
			}
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: msgInternal})
		}
		return c.JSON(http.StatusOK, task)
	}
}

func updateTask(tasks Tasks, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := userFromContext(c)

		taskID, ok := taskIDParam(c)
		if !ok {
			return c.JSON(http.StatusNotFound, errorResponse{Error: service.ErrNotFound.Error()})
		}

		var req taskRequest
		if err := decodeBody(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: msgInvalidBody})
		}

		task, err := tasks.Update(c.Request().Context(), user.ID, taskID, taskInputFromRequest(req))
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNotFound):
				return c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
			case isValidationError(err):
				return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			}
			logger.WithError(err).Error("update task failed")
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: msgInternal})
		}
		return c.JSON(http.StatusOK, task)
	}
}

func deleteTask(tasks Tasks) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := userFromContext(c)

		taskID, ok := taskIDParam(c)
		if !ok {
			return c.JSON(http.StatusNotFound, errorResponse{Error: service.ErrNotFound.Error()})
		}

		if err := tasks.Delete(c.Request().Context(), user.ID, taskID); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
			}
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: msgInternal})
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// taskInputFromRequest drops anything the client must not control, such as
// an owner field in the payload.
func taskInputFromRequest(req taskRequest) service.TaskInput {
	return service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	}
}

func taskIDParam(c echo.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func isValidationError(err error) bool {
	return errors.Is(err, service.ErrTitleRequired) ||
		errors.Is(err, service.ErrTitleTooLong) ||
		errors.Is(err, service.ErrInvalidStatus) ||
		errors.Is(err, service.ErrInvalidPriority)
}
