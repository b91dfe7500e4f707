// Package fakeapi serves an in-memory academic backend for tests.
package fakeapi

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/siakad-cli/internal/models"
)

// Request is one call the server received.
type Request struct {
	Method        string
	Path          string
	Authorization string
}

type failure struct {
	status int
	body   interface{}
}

type account struct {
	password string
	user     models.User
}

// Server is a gin backed fake of the academic API.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	accounts    map[string]account
	tokens      map[string]models.User
	students    []models.Student
	courses     []models.Course
	enrollments []models.Enrollment
	grades      []models.Grade
	transcripts map[string]models.Transcript
	failures    map[string]failure
	requests    []Request
	nextID      int64
}

// New starts a server that is closed when the test ends.
func New(t testing.TB) *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{
		accounts:    make(map[string]account),
		tokens:      make(map[string]models.User),
		transcripts: make(map[string]models.Transcript),
		failures:    make(map[string]failure),
		nextID:      1000,
	}

	r := gin.New()
	r.Use(s.record, s.inject)
	r.POST("/auth/login", s.login)
	r.POST("/auth/register", s.register)

	api := r.Group("/api", s.authenticate)
	api.GET("/students", s.listStudents)
	api.POST("/students", s.createStudent)
	api.DELETE("/students/:nim", s.deleteStudent)
	api.GET("/courses", s.listCourses)
	api.GET("/enrollments", s.listEnrollments)
	api.POST("/enrollments", s.createEnrollment)
	api.DELETE("/enrollments/:id", s.deleteEnrollment)
	api.GET("/grades", s.listGrades)
	api.POST("/grades/:id/finalize", s.finalizeGrade)
	api.GET("/grades/student/:nim/transcript", s.transcript)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// AddUser registers an account that can log in and receive token.
func (s *Server) AddUser(user models.User, password, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[user.Username] = account{password: password, user: user}
	if token != "" {
		s.tokens[token] = user
	}
}

// Seed replaces the stored records.
func (s *Server) Seed(students []models.Student, courses []models.Course, enrollments []models.Enrollment, grades []models.Grade) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.students = append([]models.Student(nil), students...)
	s.courses = append([]models.Course(nil), courses...)
	s.enrollments = append([]models.Enrollment(nil), enrollments...)
	s.grades = append([]models.Grade(nil), grades...)
}

// SetTranscript stores the transcript returned for nim.
func (s *Server) SetTranscript(t models.Transcript) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcripts[t.NIM] = t
}

// Fail makes the next matching requests answer with status and body.
// A nil body sends an empty response.
func (s *Server) Fail(method, path string, status int, body interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = failure{status: status, body: body}
}

// Requests returns a copy of every received call.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Count reports how many calls matched method and path.
func (s *Server) Count(method, path string) int {
	n := 0
	for _, req := range s.Requests() {
		if req.Method == method && req.Path == path {
			n++
		}
	}
	return n
}

// Students returns the stored students.
func (s *Server) Students() []models.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Student(nil), s.students...)
}

func (s *Server) record(c *gin.Context) {
	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method:        c.Request.Method,
		Path:          c.Request.URL.Path,
		Authorization: c.GetHeader("Authorization"),
	})
	s.mu.Unlock()
	c.Next()
}

func (s *Server) inject(c *gin.Context) {
	s.mu.Lock()
	f, ok := s.failures[c.Request.Method+" "+c.Request.URL.Path]
	s.mu.Unlock()
	if !ok {
		c.Next()
		return
	}
	if f.body == nil {
		c.AbortWithStatus(f.status)
		return
	}
	c.AbortWithStatusJSON(f.status, f.body)
}

func (s *Server) authenticate(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	s.mu.Lock()
	_, ok := s.tokens[token]
	s.mu.Unlock()
	if header == "" || !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	c.Next()
}

func (s *Server) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": []string{"username should not be empty", "password should not be empty"}})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[req.Username]
	if !ok || acc.password != req.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, models.AuthResponse{AccessToken: s.tokenFor(acc.user), User: acc.user})
}

func (s *Server) register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[req.Username]; exists {
		c.JSON(http.StatusConflict, gin.H{"message": "Username already exists"})
		return
	}
	s.nextID++
	user := models.User{ID: s.nextID, Username: req.Username, Email: req.Email, FullName: req.FullName, Role: req.Role}
	s.accounts[req.Username] = account{password: req.Password, user: user}
	c.JSON(http.StatusCreated, models.AuthResponse{AccessToken: s.tokenFor(user), User: user})
}

// tokenFor returns an existing token for user or mints one. Callers hold mu.
func (s *Server) tokenFor(user models.User) string {
	for token, u := range s.tokens {
		if u.Username == user.Username {
			return token
		}
	}
	token := "token-" + user.Username
	s.tokens[token] = user
	return token
}

func (s *Server) listStudents(c *gin.Context) {
	c.JSON(http.StatusOK, s.Students())
}

func (s *Server) createStudent(c *gin.Context) {
	var req models.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.students {
		if st.NIM == req.NIM {
			c.JSON(http.StatusConflict, gin.H{"message": "NIM already exists"})
			return
		}
	}
	student := models.Student{NIM: req.NIM, Name: req.Name, Email: req.Email, Major: req.Major, Angkatan: req.Angkatan}
	s.students = append(s.students, student)
	c.JSON(http.StatusCreated, student)
}

func (s *Server) deleteStudent(c *gin.Context) {
	nim := c.Param("nim")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, st := range s.students {
		if st.NIM == nim {
			s.students = append(s.students[:i], s.students[i+1:]...)
			c.JSON(http.StatusOK, gin.H{"message": "Student deleted"})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "Student with NIM " + nim + " not found"})
}

func (s *Server) listCourses(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.courses)
}

func (s *Server) listEnrollments(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.enrollments)
}

func (s *Server) createEnrollment(c *gin.Context) {
	var req models.CreateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.courses {
		course := &s.courses[i]
		if course.ID != req.CourseID {
			continue
		}
		if course.Full() {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Course is full"})
			return
		}
		course.CurrentEnrollment++
		snapshot := *course
		s.nextID++
		enrollment := models.Enrollment{
			ID: s.nextID, NIM: req.NIM, CourseID: req.CourseID, Semester: req.Semester,
			AcademicYear: req.AcademicYear, Status: models.EnrollmentStatusActive, Course: &snapshot,
		}
		s.enrollments = append(s.enrollments, enrollment)
		c.JSON(http.StatusCreated, enrollment)
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "Course not found"})
}

func (s *Server) deleteEnrollment(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.enrollments {
		if e.ID == id {
			s.enrollments = append(s.enrollments[:i], s.enrollments[i+1:]...)
			c.Status(http.StatusNoContent)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "Enrollment not found"})
}

func (s *Server) listGrades(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.grades)
}

func (s *Server) finalizeGrade(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.grades {
		if s.grades[i].ID != id {
			continue
		}
		if s.grades[i].Final() {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Grade is already finalized"})
			return
		}
		s.grades[i].Status = models.GradeStatusFinal
		c.JSON(http.StatusOK, s.grades[i])
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "Grade not found"})
}

func (s *Server) transcript(c *gin.Context) {
	nim := c.Param("nim")
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transcripts[nim]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Student with NIM " + nim + " not found"})
		return
	}
	c.JSON(http.StatusOK, t)
}
