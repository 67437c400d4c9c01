package registry

import "github.com/xzz53/dynamixel-tool/internal/protocol"

// regs is the compiled-in control-table catalog. Addresses and widths are
// taken from each model's published control table; this is not an
// exhaustive parts list, but covers the registers exercised by the CLI's
// read/write/monitor examples and tests.
var regs = []Reg{
	// AX-12A, Protocol 1.
	{Model: "ax12", Proto: protocol.V1, Name: "model_number", Address: 0, Size: Half, Access: R},
	{Model: "ax12", Proto: protocol.V1, Name: "firmware_version", Address: 2, Size: Byte, Access: R},
	{Model: "ax12", Proto: protocol.V1, Name: "id", Address: 3, Size: Byte, Access: RW},
	{Model: "ax12", Proto: protocol.V1, Name: "baud_rate", Address: 4, Size: Byte, Access: RW},
	{Model: "ax12", Proto: protocol.V1, Name: "return_delay_time", Address: 5, Size: Byte, Access: RW},
	{Model: "ax12", Proto: protocol.V1, Name: "cw_angle_limit", Address: 6, Size: Half, Access: RW},
	{Model: "ax12", Proto: protocol.V1, Name: "ccw_angle_limit", Address: 8, Size: Half, Access: RW},
	{Model: "ax12", Proto: protocol.V1, Name: "temperature_limit", Address: 11, Size: Byte, Access: RW},
	{Model: "ax12", Proto: protocol.V1, Name: "min_voltage_limit", Address: 12, Size: Byte, Access: RW},
	{Model: "ax12", Proto: protocol.V1, Name: "max_voltage_limit", Address: 13, Size: Byte, Access: RW},
	{Model: "ax12", Proto: protocol.V1, Name: "max_torque", Address: 14, Size: Half, Access: RW},
	{Model: "ax12", Proto: protocol.V1, Name: "status_return_level", Address: 16, Size: Byte, Access: RW},
	{Model: "ax12", Proto: protocol.V1, Name: "alarm_led", Address: 17, Size: Byte, Access: RW},
	{Model: "ax12", Proto: protocol.V1, Name: "alarm_shutdown", Address: 18, Size: Byte, Access: RW},
	{Model: "ax12", Proto: protocol.V1, Name: "torque_enable", Address: 24, Size: Byte, Access: RW},
	{Model: "ax12", Proto: protocol.V1, Name: "led", Address: 25, Size: Byte, Access: RW},
	{Model: "ax12", Proto: protocol.V1, Name: "cw_compliance_margin", Address: 26, Size: Byte, Access: RW},
	{Model: "ax12", Proto: protocol.V1, Name: "ccw_compliance_margin", Address: 27, Size: Byte, Access: RW},
	{Model: "ax12", Proto: protocol.V1, Name: "cw_compliance_slope", Address: 28, Size: Byte, Access: RW},
	{Model: "ax12", Proto: protocol.V1, Name: "ccw_compliance_slope", Address: 29, Size: Byte, Access: RW},
	{Model: "ax12", Proto: protocol.V1, Name: "goal_position", Address: 30, Size: Half, Access: RW},
	{Model: "ax12", Proto: protocol.V1, Name: "moving_speed", Address: 32, Size: Half, Access: RW},
	{Model: "ax12", Proto: protocol.V1, Name: "torque_limit", Address: 34, Size: Half, Access: RW},
	{Model: "ax12", Proto: protocol.V1, Name: "present_position", Address: 36, Size: Half, Access: R},
	{Model: "ax12", Proto: protocol.V1, Name: "present_speed", Address: 38, Size: Half, Access: R},
	{Model: "ax12", Proto: protocol.V1, Name: "present_load", Address: 40, Size: Half, Access: R},
	{Model: "ax12", Proto: protocol.V1, Name: "present_voltage", Address: 42, Size: Byte, Access: R},
	{Model: "ax12", Proto: protocol.V1, Name: "present_temperature", Address: 43, Size: Byte, Access: R},
	{Model: "ax12", Proto: protocol.V1, Name: "registered", Address: 44, Size: Byte, Access: R},
	{Model: "ax12", Proto: protocol.V1, Name: "moving", Address: 46, Size: Byte, Access: R},
	{Model: "ax12", Proto: protocol.V1, Name: "lock", Address: 47, Size: Byte, Access: RW},
	{Model: "ax12", Proto: protocol.V1, Name: "punch", Address: 48, Size: Half, Access: RW},

	// MX-28 (2.0 firmware), Protocol 2.
	{Model: "mx28", Proto: protocol.V2, Name: "model_number", Address: 0, Size: Half, Access: R},
	{Model: "mx28", Proto: protocol.V2, Name: "model_information", Address: 2, Size: Word, Access: R},
	{Model: "mx28", Proto: protocol.V2, Name: "firmware_version", Address: 6, Size: Byte, Access: R},
	{Model: "mx28", Proto: protocol.V2, Name: "id", Address: 7, Size: Byte, Access: RW},
	{Model: "mx28", Proto: protocol.V2, Name: "baud_rate", Address: 8, Size: Byte, Access: RW},
	{Model: "mx28", Proto: protocol.V2, Name: "return_delay_time", Address: 9, Size: Byte, Access: RW},
	{Model: "mx28", Proto: protocol.V2, Name: "drive_mode", Address: 10, Size: Byte, Access: RW},
	{Model: "mx28", Proto: protocol.V2, Name: "operating_mode", Address: 11, Size: Byte, Access: RW},
	{Model: "mx28", Proto: protocol.V2, Name: "homing_offset", Address: 20, Size: Word, Access: RW},
	{Model: "mx28", Proto: protocol.V2, Name: "moving_threshold", Address: 24, Size: Word, Access: RW},
	{Model: "mx28", Proto: protocol.V2, Name: "temperature_limit", Address: 31, Size: Byte, Access: RW},
	{Model: "mx28", Proto: protocol.V2, Name: "max_voltage_limit", Address: 32, Size: Half, Access: RW},
	{Model: "mx28", Proto: protocol.V2, Name: "min_voltage_limit", Address: 34, Size: Half, Access: RW},
	{Model: "mx28", Proto: protocol.V2, Name: "pwm_limit", Address: 36, Size: Half, Access: RW},
	{Model: "mx28", Proto: protocol.V2, Name: "acceleration_limit", Address: 40, Size: Word, Access: RW},
	{Model: "mx28", Proto: protocol.V2, Name: "velocity_limit", Address: 44, Size: Word, Access: RW},
	{Model: "mx28", Proto: protocol.V2, Name: "max_position_limit", Address: 48, Size: Word, Access: RW},
	{Model: "mx28", Proto: protocol.V2, Name: "min_position_limit", Address: 52, Size: Word, Access: RW},
	{Model: "mx28", Proto: protocol.V2, Name: "shutdown", Address: 63, Size: Byte, Access: RW},
	{Model: "mx28", Proto: protocol.V2, Name: "torque_enable", Address: 64, Size: Byte, Access: RW},
	{Model: "mx28", Proto: protocol.V2, Name: "led", Address: 65, Size: Byte, Access: RW},
	{Model: "mx28", Proto: protocol.V2, Name: "status_return_level", Address: 68, Size: Byte, Access: RW},
	{Model: "mx28", Proto: protocol.V2, Name: "hardware_error_status", Address: 70, Size: Byte, Access: R},
	{Model: "mx28", Proto: protocol.V2, Name: "velocity_i_gain", Address: 76, Size: Half, Access: RW},
	{Model: "mx28", Proto: protocol.V2, Name: "velocity_p_gain", Address: 78, Size: Half, Access: RW},
	{Model: "mx28", Proto: protocol.V2, Name: "position_d_gain", Address: 80, Size: Half, Access: RW},
	{Model: "mx28", Proto: protocol.V2, Name: "position_i_gain", Address: 82, Size: Half, Access: RW},
	{Model: "mx28", Proto: protocol.V2, Name: "position_p_gain", Address: 84, Size: Half, Access: RW},
	{Model: "mx28", Proto: protocol.V2, Name: "goal_pwm", Address: 100, Size: Half, Access: RW},
	{Model: "mx28", Proto: protocol.V2, Name: "goal_velocity", Address: 104, Size: Word, Access: RW},
	{Model: "mx28", Proto: protocol.V2, Name: "profile_acceleration", Address: 108, Size: Word, Access: RW},
	{Model: "mx28", Proto: protocol.V2, Name: "profile_velocity", Address: 112, Size: Word, Access: RW},
	{Model: "mx28", Proto: protocol.V2, Name: "goal_position", Address: 116, Size: Word, Access: RW},
	{Model: "mx28", Proto: protocol.V2, Name: "moving", Address: 122, Size: Byte, Access: R},
	{Model: "mx28", Proto: protocol.V2, Name: "present_pwm", Address: 124, Size: Half, Access: R},
	{Model: "mx28", Proto: protocol.V2, Name: "present_load", Address: 126, Size: Half, Access: R},
	{Model: "mx28", Proto: protocol.V2, Name: "present_velocity", Address: 128, Size: Word, Access: R},
	{Model: "mx28", Proto: protocol.V2, Name: "present_position", Address: 132, Size: Word, Access: R},
	{Model: "mx28", Proto: protocol.V2, Name: "present_input_voltage", Address: 144, Size: Half, Access: R},
	{Model: "mx28", Proto: protocol.V2, Name: "present_temperature", Address: 146, Size: Byte, Access: R},

	// XL-430-W250, Protocol 2 — a smaller subset representative of the
	// X-series control table layout shared with XM/XH models.
	{Model: "xl430", Proto: protocol.V2, Name: "model_number", Address: 0, Size: Half, Access: R},
	{Model: "xl430", Proto: protocol.V2, Name: "firmware_version", Address: 6, Size: Byte, Access: R},
	{Model: "xl430", Proto: protocol.V2, Name: "id", Address: 7, Size: Byte, Access: RW},
	{Model: "xl430", Proto: protocol.V2, Name: "baud_rate", Address: 8, Size: Byte, Access: RW},
	{Model: "xl430", Proto: protocol.V2, Name: "operating_mode", Address: 11, Size: Byte, Access: RW},
	{Model: "xl430", Proto: protocol.V2, Name: "torque_enable", Address: 64, Size: Byte, Access: RW},
	{Model: "xl430", Proto: protocol.V2, Name: "led", Address: 65, Size: Byte, Access: RW},
	{Model: "xl430", Proto: protocol.V2, Name: "goal_velocity", Address: 104, Size: Word, Access: RW},
	{Model: "xl430", Proto: protocol.V2, Name: "goal_position", Address: 116, Size: Word, Access: RW},
	{Model: "xl430", Proto: protocol.V2, Name: "present_load", Address: 126, Size: Half, Access: R},
	{Model: "xl430", Proto: protocol.V2, Name: "present_velocity", Address: 128, Size: Word, Access: R},
	{Model: "xl430", Proto: protocol.V2, Name: "present_position", Address: 132, Size: Word, Access: R},
	{Model: "xl430", Proto: protocol.V2, Name: "present_temperature", Address: 146, Size: Byte, Access: R},
}
