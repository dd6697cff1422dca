package code

// messages maps error codes to their default human-readable message.
// Operator-facing messages are Vietnamese, matching the dashboard UI.
var messages = map[int]string{
	ErrSuccess:         "Thành công",
	ErrUnknown:         "Lỗi hệ thống",
	ErrBind:            "Dữ liệu yêu cầu không hợp lệ",
	ErrValidation:      "Tham số không hợp lệ",
	ErrTooManyRequests: "Quá nhiều yêu cầu, vui lòng thử lại sau",

	ErrPatientNotFound:     "Không tìm thấy bệnh nhân",
	ErrPatientAlreadyExist: "Mã y tế đã tồn tại",

	ErrAlertNotFound:       "Không tìm thấy cảnh báo",
	ErrAlertInvalidStatus:  "Trạng thái cảnh báo không hợp lệ",
	ErrAlertImageNotFound:  "Cảnh báo không có ảnh",
	ErrAlertImageCorrupt:   "Dữ liệu ảnh không hợp lệ",
	ErrAlertTerminalLocked: "Cảnh báo đã kết thúc, không thể thay đổi trạng thái",

	ErrFaceImageNotFound: "Không tìm thấy ảnh khuôn mặt",
	ErrEmbeddingInvalid:  "Vector đặc trưng không hợp lệ",

	ErrDatabase:       "Lỗi cơ sở dữ liệu",
	ErrRecordNotFound: "Không tìm thấy bản ghi",
}

// statuses maps error codes to HTTP status codes.
var statuses = map[int]int{
	ErrSuccess:         StatusOK,
	ErrUnknown:         StatusInternalServerError,
	ErrBind:            StatusBadRequest,
	ErrValidation:      StatusBadRequest,
	ErrTooManyRequests: StatusTooManyRequests,

	ErrPatientNotFound:     StatusNotFound,
	ErrPatientAlreadyExist: StatusBadRequest,

	ErrAlertNotFound:       StatusNotFound,
	ErrAlertInvalidStatus:  StatusBadRequest,
	ErrAlertImageNotFound:  StatusNotFound,
	ErrAlertImageCorrupt:   StatusBadRequest,
	ErrAlertTerminalLocked: StatusBadRequest,

	ErrFaceImageNotFound: StatusNotFound,
	ErrEmbeddingInvalid:  StatusBadRequest,

	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,
}

// GetMessage returns the default message for an error code
func GetMessage(errorCode int) string {
	if msg, ok := messages[errorCode]; ok {
		return msg
	}
	return messages[ErrUnknown]
}

// GetStatus returns the HTTP status for an error code
func GetStatus(errorCode int) int {
	if status, ok := statuses[errorCode]; ok {
		return status
	}
	return StatusInternalServerError
}
