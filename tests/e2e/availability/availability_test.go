//go:build e2e

package availability_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"fleetrent/internal/domain/user"
	"fleetrent/internal/handler/dto/request"
	"fleetrent/internal/handler/dto/response"
	"fleetrent/tests/common/builder"
	"fleetrent/tests/common/dbtest"
	"fleetrent/tests/common/helper"
	"fleetrent/tests/e2e"
	jwtHelper "fleetrent/tests/e2e/common/helper"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	blocksURL   = "/api/blocks"
	bookingsURL = "/api/bookings"
)

type availabilitySuite struct {
	e2e.SharedSuite
	jwt *jwtHelper.JWTTestHelper

	providerToken string
	renterToken   string
	renterID      uuid.UUID
	vehicleID     uuid.UUID
	driverID      uuid.UUID
}

func TestAvailabilitySuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(availabilitySuite))
}

func (s *availabilitySuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwt = jwtHelper.NewJWTTestHelper(s.Config.JWT)
}

func (s *availabilitySuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
	t := s.T()

	providerID := dbtest.CreateTestUser(t, s.DB, "provider@example.com", string(user.RoleProvider))
	s.renterID = dbtest.CreateTestUser(t, s.DB, "renter@example.com", string(user.RoleRenter))

	companyID := dbtest.CreateTestCompany(t, s.DB, "Default Company")
	s.vehicleID = dbtest.CreateTestListing(t, s.DB, companyID, "vehicle", "Truck A")
	s.driverID = dbtest.CreateTestListing(t, s.DB, companyID, "driver", "Driver B")

	s.providerToken = s.jwt.TokenFor(t, providerID, user.RoleProvider)
	s.renterToken = s.jwt.TokenFor(t, s.renterID, user.RoleRenter)
}

func (s *availabilitySuite) availabilityURL(listingType string, id uuid.UUID, start, end string) string {
	return fmt.Sprintf("/api/listings/%s/%s/availability?start=%s&end=%s", listingType, id, start, end)
}

func (s *availabilitySuite) createBlock(t *testing.T, start, end string) response.BlockResponse {
	t.Helper()

	req := builder.NewBlockBuilder().With(func(b *builder.BlockBuilder) {
		b.ListingID = s.vehicleID
		b.StartDate = start
		b.EndDate = end
	}).BuildDTO()

	w := helper.PerformRequest(t, s.Router, http.MethodPost, blocksURL, req, s.providerToken)
	var block response.BlockResponse
	helper.AssertSuccessResponse(t, w, http.StatusCreated, &block)
	return block
}

func (s *availabilitySuite) TestBlockLifecycle() {
	s.Run("create then delete a block", func() {
		t := s.T()
		block := s.createBlock(t, "2030-06-10", "2030-06-12")

		w := helper.PerformRequest(t, s.Router, http.MethodGet,
			s.availabilityURL("vehicle", s.vehicleID, "2030-06-11", "2030-06-13"), nil, s.renterToken)
		var avail response.AvailabilityResponse
		helper.AssertSuccessResponse(t, w, http.StatusOK, &avail)
		require.False(t, avail.Available)
		require.Len(t, avail.Conflicts, 1)
		require.Equal(t, "manual_block", avail.Conflicts[0].Source)

		w = helper.PerformRequest(t, s.Router, http.MethodDelete, blocksURL+"/"+block.ID.String(), nil, s.providerToken)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = helper.PerformRequest(t, s.Router, http.MethodGet,
			s.availabilityURL("vehicle", s.vehicleID, "2030-06-11", "2030-06-13"), nil, s.renterToken)
		helper.AssertSuccessResponse(t, w, http.StatusOK, &avail)
		require.True(t, avail.Available)
	})

	s.Run("renter cannot create blocks", func() {
		t := s.T()
		req := builder.NewBlockBuilder().With(func(b *builder.BlockBuilder) {
			b.ListingID = s.vehicleID
		}).BuildDTO()

		w := helper.PerformRequest(t, s.Router, http.MethodPost, blocksURL, req, s.renterToken)
		require.Equal(t, http.StatusForbidden, w.Code)
	})
}

func (s *availabilitySuite) TestBookingAdmission() {
	s.Run("booking over blocked dates is rejected and notified", func() {
		t := s.T()
		s.createBlock(t, "2030-06-10", "2030-06-12")

		req := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.VehicleID = &s.vehicleID
			b.StartDate = "2030-06-11"
			b.EndDate = "2030-06-14"
		}).BuildDTO()

		w := helper.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, req, s.renterToken)
		helper.AssertErrorResponse(t, w, http.StatusConflict, "")

		var jobs int
		err := s.DB.QueryRow(t.Context(),
			"SELECT count(*) FROM notification_jobs WHERE user_id = $1 AND kind = 'BOOKING_REJECTED_BLOCKED_DATES'",
			s.renterID).Scan(&jobs)
		require.NoError(t, err)
		require.Equal(t, 1, jobs)
	})

	s.Run("booking on free dates succeeds and then conflicts", func() {
		t := s.T()

		req := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.VehicleID = &s.vehicleID
			b.StartDate = "2030-07-01"
			b.EndDate = "2030-07-05"
		}).BuildDTO()

		w := helper.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, req, s.renterToken)
		var created response.BookingResponse
		helper.AssertSuccessResponse(t, w, http.StatusCreated, &created)
		require.Equal(t, "PENDING", created.Status)
		require.True(t, strings.HasPrefix(created.BookingNumber, "BK-"))

		// The identical request now collides with the pending booking.
		w = helper.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, req, s.renterToken)
		helper.AssertErrorResponse(t, w, http.StatusConflict, "")
	})

	s.Run("combined request spans vehicle and driver", func() {
		t := s.T()

		req := request.CreateBookingRequest{
			VehicleListingID: &s.vehicleID,
			DriverListingID:  &s.driverID,
			StartDate:        "2030-08-01",
			EndDate:          "2030-08-03",
		}

		w := helper.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, req, s.renterToken)
		var created response.BookingResponse
		helper.AssertSuccessResponse(t, w, http.StatusCreated, &created)
		require.NotNil(t, created.DriverListingID)

		// The driver is now held too, so a driver-only request conflicts.
		driverOnly := request.CreateBookingRequest{
			DriverListingID: &s.driverID,
			StartDate:       "2030-08-02",
			EndDate:         "2030-08-04",
		}
		w = helper.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, driverOnly, s.renterToken)
		helper.AssertErrorResponse(t, w, http.StatusConflict, "")
	})

	s.Run("provider cannot create bookings", func() {
		t := s.T()
		req := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.VehicleID = &s.vehicleID
		}).BuildDTO()

		w := helper.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, req, s.providerToken)
		require.Equal(t, http.StatusForbidden, w.Code)
	})
}

func (s *availabilitySuite) TestCalendarExport() {
	s.Run("exports blocks as all-day events", func() {
		t := s.T()
		s.createBlock(t, "2030-06-10", "2030-06-12")

		url := fmt.Sprintf("/api/listings/vehicle/%s/calendar.ics?start=2030-06-01&end=2030-06-30", s.vehicleID)
		w := helper.PerformRequest(t, s.Router, http.MethodGet, url, nil, s.renterToken)
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Header().Get("Content-Type"), "text/calendar")

		body := w.Body.String()
		require.Contains(t, body, "BEGIN:VCALENDAR")
		require.Contains(t, body, "DTSTART;VALUE=DATE:20300610")
		// inclusive end renders as exclusive DTEND
		require.Contains(t, body, "DTEND;VALUE=DATE:20300613")
	})
}
