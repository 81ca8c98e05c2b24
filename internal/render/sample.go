package render

import "github.com/gosuda/schooldocs/internal/variables"

// SampleData returns the fixed record substituted into template previews. It
// covers the variables produced by every document assembler. A new map is
// returned on each call.
func SampleData() variables.Data {
	return variables.Data{
		"school": map[string]any{
			"name":          "Greenfield Public School",
			"address":       "12 MG Road, Bengaluru, Karnataka 560001",
			"phone":         "+91 80 4000 1234",
			"email":         "office@greenfield.example",
			"logoUrl":       "",
			"principalName": "Dr. Meera Iyer",
		},
		"student": map[string]any{
			"name":            "Aarav Sharma",
			"class":           "10",
			"section":         "A",
			"rollNumber":      "17",
			"admissionNumber": "GPS-2019-0457",
			"fatherName":      "Rakesh Sharma",
			"motherName":      "Sunita Sharma",
			"dateOfBirth":     "15 Jun 2010",
		},
		"receipt": map[string]any{
			"number":       "RCPT-2025-000123",
			"date":         "10 Apr 2025",
			"academicYear": "2025-26",
			"paymentMode":  "UPI",
		},
		"fee": map[string]any{
			"type":          "Tuition Fee",
			"month":         "April",
			"amount":        "12,500.00",
			"paidAmount":    "12,500.00",
			"discount":      "0.00",
			"fine":          "0.00",
			"balance":       "0.00",
			"status":        "paid",
			"dueDate":       "15 Apr 2025",
			"amountInWords": "Twelve Thousand Five Hundred Rupees Only",
		},
		"examination": map[string]any{
			"name":         "Half Yearly Examination",
			"code":         "HY2025",
			"examType":     "HALF_YEARLY",
			"academicYear": "2025-26",
			"startDate":    "15 Sep 2025",
			"endDate":      "26 Sep 2025",
			"totalMarks":   "500",
			"passingMarks": "165",
		},
		"admitCardNumber": "ADM-HY2025-17-M0ABCD12",
		"generatedAt":     "01 Sep 2025",
		"subjectRows": `<tr><td>Mathematics</td><td>15 Sep 2025</td><td>09:30</td><td>12:30</td></tr>` +
			`<tr><td>Science</td><td>17 Sep 2025</td><td>09:30</td><td>12:30</td></tr>`,
		"result": map[string]any{
			"totalMarks":    "500",
			"obtainedMarks": "462.5",
			"percentage":    "92.50",
			"grade":         "A+",
			"status":        "PASS",
			"remarks":       "Excellent performance",
			"publishedAt":   "10 Oct 2025",
		},
		"studentName":   "Aarav Sharma",
		"rollNumber":    "17",
		"className":     "10",
		"section":       "A",
		"examName":      "Half Yearly Examination",
		"totalMarks":    "500",
		"obtainedMarks": "462.5",
		"percentage":    "92.50",
		"grade":         "A+",
		"resultStatus":  "PASS",
		"notice": map[string]any{
			"title":    "Annual Sports Day",
			"date":     "20 Nov 2025",
			"issuedBy": "Principal",
			"body":     "Annual Sports Day will be held on the school ground.",
			"bodyHtml": "<p>Annual Sports Day will be held on the school ground.</p>",
		},
		"certificate": map[string]any{
			"title":        "Bonafide Certificate",
			"purpose":      "passport application",
			"issuedOn":     "01 Jul 2025",
			"serialNumber": "BC-2025-0042",
		},
		"date": "01 Sep 2025",
	}
}
