// Package api pkg/api/device.go

package api

import (
	"log"
	"net/http"

	"github.com/Aboubacarelhacen/silo/pkg/opc"
)

// manageable queries the data source for the optional connection
// management capability. Test doubles without it get a clean 400
// instead of a panic or a concrete-type check.
func (s *Server) manageable(w http.ResponseWriter) (opc.ConnectionManager, bool) {
	cm, ok := s.source.(opc.ConnectionManager)
	if !ok {
		writeError(w, http.StatusBadRequest, "data source does not support connection management")
		return nil, false
	}

	return cm, true
}

func (s *Server) connectDevice(w http.ResponseWriter, r *http.Request) {
	cm, ok := s.manageable(w)
	if !ok {
		return
	}

	if err := cm.Connect(r.Context()); err != nil {
		log.Printf("api: device connect failed: %v", err)
		writeError(w, http.StatusInternalServerError, "connection failed: "+err.Error())

		return
	}

	writeJSON(w, http.StatusOK, deviceActionResponse{Success: true, Message: "connected to PLC"})
}

func (s *Server) disconnectDevice(w http.ResponseWriter, r *http.Request) {
	cm, ok := s.manageable(w)
	if !ok {
		return
	}

	cm.Disconnect()

	writeJSON(w, http.StatusOK, deviceActionResponse{Success: true, Message: "disconnected from PLC"})
}

func (s *Server) getDeviceStatus(w http.ResponseWriter, r *http.Request) {
	cm, ok := s.manageable(w)
	if !ok {
		return
	}

	status := cm.Status()

	message := "disconnected"

	switch {
	case status.Connected:
		message = "connected"
	case status.ManuallyDisconnected:
		message = "manually disconnected"
	}

	writeJSON(w, http.StatusOK, deviceStatusResponse{
		Connected: status.Connected,
		Message:   message,
		LastError: status.LastError,
		Endpoint:  status.Endpoint,
	})
}
