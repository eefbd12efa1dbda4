package engine

import (
	"fmt"
	"strings"
)

// Framework identifies a supported compliance framework.
type Framework string

const (
	Generic   Framework = "GENERIC"
	SOC2      Framework = "SOC2"
	NIST80053 Framework = "NIST800-53"
)

var frameworkAliases = map[string]Framework{
	"GENERIC":     Generic,
	"SOC2":        SOC2,
	"SOC-2":       SOC2,
	"NIST800-53":  NIST80053,
	"NIST-800-53": NIST80053,
	"NIST80053":   NIST80053,
}

// Frameworks lists the supported frameworks in display order.
func Frameworks() []Framework {
	return []Framework{Generic, SOC2, NIST80053}
}

// ParseFramework resolves a framework name, ignoring case.
func ParseFramework(name string) (Framework, error) {
	fw, ok := frameworkAliases[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("unknown framework: %s", name)
	}
	return fw, nil
}

func (f Framework) String() string {
	return string(f)
}

// DefaultControl returns the control assigned when nothing else matches.
func (f Framework) DefaultControl() (string, bool) {
	switch f {
	case SOC2:
		return "CC7.1", true
	case NIST80053:
		return "SI-4", true
	default:
		return "", false
	}
}

// DefaultMappingTable returns the built-in table used when no mapping
// source is configured or it fails to load. Each call returns a fresh copy.
func (f Framework) DefaultMappingTable() MappingTable {
	switch f {
	case SOC2:
		return soc2Defaults()
	case NIST80053:
		return nist80053Defaults()
	default:
		return EmptyMappingTable()
	}
}

func soc2Defaults() MappingTable {
	return MappingTable{
		TypeMappings: map[string][]string{
			"IAM":                     {"CC6.1", "CC6.2", "CC6.3"},
			"Effects/Data Exposure":   {"CC6.1", "CC6.7"},
			"TTPs/Initial Access":     {"CC6.6", "CC7.2"},
			"Unusual Behaviors":       {"CC7.2", "CC7.3"},
			"Vulnerabilities/CVE":     {"CC7.1", "CC8.1"},
			"Sensitive Data":          {"C1.1", "CC6.7"},
			"Industry and Regulatory": {"CC1.4"},
		},
		TitleMappings: map[string][]string{
			"root":       {"CC6.1", "CC6.3"},
			"mfa":        {"CC6.1"},
			"password":   {"CC6.1"},
			"encryption": {"CC6.7"},
			"encrypted":  {"CC6.7"},
			"public":     {"CC6.6"},
			"cloudtrail": {"CC7.2"},
			"logging":    {"CC7.2"},
			"backup":     {"A1.2"},
		},
		ControlDescriptions: map[string]string{
			"A1.2":  "Environmental protections, software, data backup processes, and recovery infrastructure",
			"C1.1":  "Identifies and maintains confidential information",
			"CC1.4": "Demonstrates commitment to attract, develop, and retain competent individuals",
			"CC6.1": "Logical access security software, infrastructure, and architectures",
			"CC6.2": "Registration and authorization of new internal and external users",
			"CC6.3": "Role-based access and least privilege",
			"CC6.6": "Security measures against threats from sources outside system boundaries",
			"CC6.7": "Restricts the transmission, movement, and removal of information",
			"CC7.1": "Detection and monitoring procedures for configuration changes and vulnerabilities",
			"CC7.2": "Monitors system components for anomalies indicative of malicious acts",
			"CC7.3": "Evaluates security events to determine whether they are incidents",
			"CC8.1": "Authorizes, designs, tests, approves, and implements changes",
		},
	}
}

func nist80053Defaults() MappingTable {
	return MappingTable{
		TypeMappings: map[string][]string{
			"IAM":                   {"AC-2", "AC-6", "IA-2"},
			"Effects/Data Exposure": {"AC-3", "SC-7"},
			"TTPs/Initial Access":   {"SI-4", "SC-7"},
			"Unusual Behaviors":     {"SI-4", "AU-6"},
			"Vulnerabilities/CVE":   {"RA-5", "SI-2"},
			"Sensitive Data":        {"SC-28"},
		},
		TitleMappings: map[string][]string{
			"root":       {"AC-6", "IA-2"},
			"mfa":        {"IA-2"},
			"password":   {"IA-5"},
			"encryption": {"SC-13", "SC-28"},
			"encrypted":  {"SC-28"},
			"public":     {"AC-3", "SC-7"},
			"cloudtrail": {"AU-2", "AU-12"},
			"logging":    {"AU-2", "AU-12"},
			"backup":     {"CP-9"},
		},
		ControlDescriptions: map[string]string{
			"AC-2":  "Account Management",
			"AC-3":  "Access Enforcement",
			"AC-6":  "Least Privilege",
			"AU-2":  "Event Logging",
			"AU-6":  "Audit Record Review, Analysis, and Reporting",
			"AU-12": "Audit Record Generation",
			"CP-9":  "System Backup",
			"IA-2":  "Identification and Authentication (Organizational Users)",
			"IA-5":  "Authenticator Management",
			"RA-5":  "Vulnerability Monitoring and Scanning",
			"SC-7":  "Boundary Protection",
			"SC-13": "Cryptographic Protection",
			"SC-28": "Protection of Information at Rest",
			"SI-2":  "Flaw Remediation",
			"SI-4":  "System Monitoring",
		},
	}
}
