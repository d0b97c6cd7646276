package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/thanhtike404/hotel-booking/models"
	"github.com/thanhtike404/hotel-booking/repositories"
)

// HotelController handles hotel and room management endpoints
type HotelController struct {
	hotels *repositories.HotelRepository
}

func NewHotelController(hotels *repositories.HotelRepository) *HotelController {
	return &HotelController{hotels: hotels}
}

// GetHotels handles GET /api/v1/hotels?city=&name=
func (hc *HotelController) GetHotels(c echo.Context) error {
	hotels, err := hc.hotels.List(c.Request().Context(), c.QueryParam("city"), c.QueryParam("name"))
	if err != nil {
		return storeErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Hotels retrieved successfully",
		Data:    hotels,
	})
}

// GetHotel handles GET /api/v1/hotels/:id, returning the hotel with its rooms
func (hc *HotelController) GetHotel(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid hotel ID",
		})
	}

	hotel, err := hc.hotels.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Hotel not found",
			})
		}
		return storeErrorResponse(c, err)
	}

	rooms, err := hc.hotels.ListRooms(c.Request().Context(), id)
	if err != nil {
		return storeErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Hotel retrieved successfully",
		Data: map[string]interface{}{
			"hotel": hotel,
			"rooms": rooms,
		},
	})
}

// CreateHotel handles POST /api/v1/admin/hotels
func (hc *HotelController) CreateHotel(c echo.Context) error {
	var req models.HotelRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Missing required fields",
		})
	}

	hotel := models.Hotel{
		Name:        req.Name,
		Description: req.Description,
		City:        req.City,
		Country:     req.Country,
		Address:     req.Address,
		Rating:      req.Rating,
		Image:       req.Image,
	}
	if err := hc.hotels.Create(c.Request().Context(), &hotel); err != nil {
		return storeErrorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Hotel created successfully",
		Data:    hotel,
	})
}

// UpdateHotel handles PUT /api/v1/admin/hotels/:id
func (hc *HotelController) UpdateHotel(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid hotel ID",
		})
	}

	var req models.HotelRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	hotel, err := hc.hotels.Update(c.Request().Context(), id, req)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Hotel not found",
			})
		}
		return storeErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Hotel updated successfully",
		Data:    hotel,
	})
}

// DeleteHotel handles DELETE /api/v1/admin/hotels/:id
func (hc *HotelController) DeleteHotel(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid hotel ID",
		})
	}

	if err := hc.hotels.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Hotel not found",
			})
		}
		return storeErrorResponse(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// CreateRoom handles POST /api/v1/admin/hotels/:id/rooms
func (hc *HotelController) CreateRoom(c echo.Context) error {
	hotelID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid hotel ID",
		})
	}

	if _, err := hc.hotels.Get(c.Request().Context(), hotelID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Hotel not found",
			})
		}
		return storeErrorResponse(c, err)
	}

	var req models.RoomRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Missing required fields",
		})
	}

	room := models.Room{
		HotelID:  hotelID,
		Name:     req.Name,
		RoomType: req.RoomType,
		Price:    req.Price,
		Total:    req.Total,
	}
	if err := hc.hotels.CreateRoom(c.Request().Context(), &room); err != nil {
		return storeErrorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Room created successfully",
		Data:    room,
	})
}

// DeleteRoom handles DELETE /api/v1/admin/rooms/:id
func (hc *HotelController) DeleteRoom(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid room ID",
		})
	}

	if err := hc.hotels.DeleteRoom(c.Request().Context(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Room not found",
			})
		}
		return storeErrorResponse(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
