package fakeapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/guarzo/hrmapi/common/model"
)

func (s *Server) handleEcho(c *gin.Context) {
	var body json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		abortWithError(c, http.StatusBadRequest, "Body must be JSON", "BAD_REQUEST")
		return
	}
	writeOK(c, "Echo", body)
}

func (s *Server) handleListEmployees(c *gin.Context) {
	page, perPage := paginate(c)

	s.mu.Lock()
	filtered := make([]model.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		if v := c.Query("is_active"); v != "" {
			active, _ := strconv.ParseBool(v)
			if e.IsActive != active {
				continue
			}
		}
		if v := c.Query("department_id"); v != "" {
			id, _ := strconv.Atoi(v)
			if e.DepartmentID == nil || *e.DepartmentID != id {
				continue
			}
		}
		filtered = append(filtered, e)
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, model.Page[model.Employee]{
		Success: true,
		Message: "Success",
		Data:    window(filtered, page, perPage),
		Meta:    model.NewPaginationMeta(page, perPage, len(filtered)),
	})
}

func (s *Server) handleCreateEmployee(c *gin.Context) {
	var in model.EmployeeInput
	if err := c.ShouldBindJSON(&in); err != nil || in.FullName == nil || in.Email == nil || in.EmployeeID == nil {
		abortWithError(c, http.StatusUnprocessableEntity, "Validation failed", "VALIDATION_ERROR")
		return
	}
	e := model.Employee{
		EmployeeID:   *in.EmployeeID,
		FullName:     *in.FullName,
		Email:        *in.Email,
		Department:   in.Department,
		DepartmentID: in.DepartmentID,
		Designation:  in.Designation,
		IsActive:     true,
	}
	e = s.AddEmployee(e)
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Employee created", "data": e})
}

func (s *Server) findEmployee(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid id", "BAD_REQUEST")
		return -1, false
	}
	for i, e := range s.employees {
		if e.ID == id {
			return i, true
		}
	}
	abortWithError(c, http.StatusNotFound, "Employee not found", "NOT_FOUND")
	return -1, false
}

func (s *Server) handleGetEmployee(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, found := s.findEmployee(c)
	if !found {
		return
	}
	writeOK(c, "Success", s.employees[i])
}

func (s *Server) handleDeleteEmployee(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, found := s.findEmployee(c)
	if !found {
		return
	}
	s.employees = append(s.employees[:i], s.employees[i+1:]...)
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListDepartments(c *gin.Context) {
	page, perPage := paginate(c)

	s.mu.Lock()
	all := append([]model.Department(nil), s.departments...)
	s.mu.Unlock()

	c.JSON(http.StatusOK, model.Page[model.Department]{
		Success: true,
		Message: "Success",
		Data:    window(all, page, perPage),
		Meta:    model.NewPaginationMeta(page, perPage, len(all)),
	})
}
