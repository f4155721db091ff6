package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"taskpad/domain"
)

// Register wires up all API routes on the provided Echo instance. The route
// surface mirrors the callbacks the browser presentation layer invokes, one
// route per store operation.
func Register(e *echo.Echo, store Store, logger *log.Logger) {
	e.GET("/api/tasks", getTasks(store, logger))
	e.POST("/api/tasks", addTask(store))
	e.POST("/api/tasks/import", importTask(store))
	e.DELETE("/api/tasks/:id", removeTask(store))
	e.PUT("/api/tasks/:id/description", editTask(store))
	e.PUT("/api/tasks/:id/image", updateTaskImage(store), GzipRequestMiddleware())
	e.PUT("/api/tasks/:id/category", updateTaskCategory(store))
	e.PUT("/api/tasks/:id/status", updateTaskStatus(store))
	e.PUT("/api/tasks/:id/location", updateTaskLocation(store))
	e.POST("/api/tasks/:id/toggle", toggleTaskStatus(store))
	e.POST("/api/tasks/:id/sharing/toggle", toggleTaskSharing(store))
	e.POST("/api/tasks/:id/share", shareTaskWith(store))
	e.DELETE("/api/tasks/:id/share/:email", removeShareWith(store))
	e.GET("/api/categories", getCategories(store))
	e.POST("/api/categories", addCategory(store))
	e.DELETE("/api/categories/:name", removeCategory(store))
	e.GET("/api/form", getForm(store))
	e.PATCH("/api/form", patchForm(store))
	e.GET("/healthz", healthz())
}

// decodeBody reads a size-limited JSON body into out. Unknown fields are
// rejected so client typos fail loudly instead of silently dropping data.
func decodeBody(c echo.Context, limit int64, out any) error {
	dec := sonic.ConfigStd.NewDecoder(io.LimitReader(c.Request().Body, limit))
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func healthz() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
}

func getTasks(store Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		metrics := newListRequestMetrics(logger)
		defer func() {
			metrics.Log(c.Response().Status, err)
		}()

		loadStart := time.Now()
		tasks := store.Tasks()
		metrics.ObserveLoad(time.Since(loadStart))
		metrics.SetTasksReturned(len(tasks))

		encodeStart := time.Now()
		err = c.JSON(http.StatusOK, tasksResponse{Tasks: tasks})
		metrics.ObserveEncode(time.Since(encodeStart))
		if err != nil {
			metrics.SetErrorStage("encode_response")
		}
		return err
	}
}

func addTask(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		// The body is optional: fields present are applied to the form draft
		// before committing it, so clients can either drive the draft through
		// /api/form or send everything in one shot.
		var p draftPayload
		if err := decodeBody(c, defaultBodyLimit, &p); err != nil && !errors.Is(err, io.EOF) {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		applyDraft(store, p)

		task, ok := store.AddTask(c.Request().Context())
		if !ok {
			return c.JSON(http.StatusOK, addTaskResponse{Tasks: store.Tasks()})
		}
		return c.JSON(http.StatusCreated, addTaskResponse{Task: &task, Tasks: store.Tasks()})
	}
}

func importTask(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		var task domain.Task
		if err := decodeBody(c, imageBodyLimit, &task); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		tasks := store.SaveTask(c.Request().Context(), task)
		return c.JSON(http.StatusCreated, tasksResponse{Tasks: tasks})
	}
}

func removeTask(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		tasks := store.RemoveTask(c.Request().Context(), c.Param("id"))
		return c.JSON(http.StatusOK, tasksResponse{Tasks: tasks})
	}
}

func editTask(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		var p descriptionPayload
		if err := decodeBody(c, defaultBodyLimit, &p); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		tasks := store.EditTask(c.Request().Context(), c.Param("id"), p.Description)
		return c.JSON(http.StatusOK, tasksResponse{Tasks: tasks})
	}
}

func updateTaskImage(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		// An absent or null imageUrl clears the image.
		var p imagePayload
		if err := decodeBody(c, imageBodyLimit, &p); err != nil && !errors.Is(err, io.EOF) {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		imageURL := ""
		if p.ImageURL != nil {
			imageURL = *p.ImageURL
		}
		tasks := store.UpdateTaskImage(c.Request().Context(), c.Param("id"), imageURL)
		return c.JSON(http.StatusOK, tasksResponse{Tasks: tasks})
	}
}

func updateTaskCategory(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		var p categoryPayload
		if err := decodeBody(c, defaultBodyLimit, &p); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		tasks := store.UpdateTaskCategory(c.Request().Context(), c.Param("id"), p.Category)
		return c.JSON(http.StatusOK, tasksResponse{Tasks: tasks})
	}
}

func updateTaskStatus(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		var p statusPayload
		if err := decodeBody(c, defaultBodyLimit, &p); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		tasks := store.UpdateTaskStatus(c.Request().Context(), c.Param("id"), p.Status)
		return c.JSON(http.StatusOK, tasksResponse{Tasks: tasks})
	}
}

func updateTaskLocation(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		var p locationPayload
		if err := decodeBody(c, defaultBodyLimit, &p); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		tasks := store.UpdateTaskLocation(c.Request().Context(), c.Param("id"), p.Location)
		return c.JSON(http.StatusOK, tasksResponse{Tasks: tasks})
	}
}

func toggleTaskStatus(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		tasks := store.ToggleTaskStatus(c.Request().Context(), c.Param("id"))
		return c.JSON(http.StatusOK, tasksResponse{Tasks: tasks})
	}
}

func toggleTaskSharing(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		tasks := store.ToggleTaskSharing(c.Request().Context(), c.Param("id"))
		return c.JSON(http.StatusOK, tasksResponse{Tasks: tasks})
	}
}

func shareTaskWith(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		var p sharePayload
		if err := decodeBody(c, defaultBodyLimit, &p); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		tasks := store.ShareTaskWith(c.Request().Context(), c.Param("id"), p.Email)
		return c.JSON(http.StatusOK, tasksResponse{Tasks: tasks})
	}
}

func removeShareWith(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		tasks := store.RemoveShareWith(c.Request().Context(), c.Param("id"), c.Param("email"))
		return c.JSON(http.StatusOK, tasksResponse{Tasks: tasks})
	}
}

func getCategories(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, categoriesResponse{Categories: store.Categories()})
	}
}

func addCategory(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		var p categoryNamePayload
		if err := decodeBody(c, defaultBodyLimit, &p); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		categories := store.AddCategory(c.Request().Context(), p.Name)
		return c.JSON(http.StatusOK, categoriesResponse{Categories: categories})
	}
}

func removeCategory(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		categories := store.RemoveCategory(c.Request().Context(), c.Param("name"))
		return c.JSON(http.StatusOK, categoriesResponse{Categories: categories})
	}
}

func getForm(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, store.Form())
	}
}

func patchForm(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		var p draftPayload
		if err := decodeBody(c, imageBodyLimit, &p); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		applyDraft(store, p)
		return c.JSON(http.StatusOK, store.Form())
	}
}

func applyDraft(store Store, p draftPayload) {
	if p.Description != nil {
		store.SetDescription(*p.Description)
	}
	if p.Category != nil {
		store.SetCategory(*p.Category)
	}
	if p.ImageURL != nil {
		store.SetImageURL(*p.ImageURL)
	}
	if p.Status != nil {
		store.SetStatus(*p.Status)
	}
	if p.Location != nil {
		store.SetLocation(*p.Location)
	}
}
