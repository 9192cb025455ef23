package placeholder

// FieldGroup labels where a placeholder's data comes from.
type FieldGroup string

const (
	GroupCompany    FieldGroup = "Company"
	GroupEmployee   FieldGroup = "Employee"
	GroupPosition   FieldGroup = "Position"
	GroupDepartment FieldGroup = "Department"
	GroupSystem     FieldGroup = "System"
)

// Field describes one placeholder token the resolver knows about. Path is a
// dotted path into the render context; virtual fields are computed instead of
// path-looked-up.
type Field struct {
	Key     string     `json:"key"`
	Label   string     `json:"label"`
	Group   FieldGroup `json:"group"`
	Path    string     `json:"path"`
	Example string     `json:"example"`
}

// Fields is the static placeholder dictionary. Keys are unique; every Path
// resolves against the RenderContext shape.
var Fields = []Field{
	{Key: "{{employee.firstName}}", Label: "First name", Group: GroupEmployee, Path: "employee.firstName", Example: "Болд"},
	{Key: "{{employee.lastName}}", Label: "Last name", Group: GroupEmployee, Path: "employee.lastName", Example: "Бат"},
	{Key: "{{employee.fullName}}", Label: "Full name", Group: GroupEmployee, Path: "", Example: "Болд Бат"},
	{Key: "{{employee.email}}", Label: "Email", Group: GroupEmployee, Path: "employee.email", Example: "bold@example.mn"},
	{Key: "{{employee.phone}}", Label: "Phone", Group: GroupEmployee, Path: "employee.phone", Example: "9911-2233"},
	{Key: "{{employee.hiredDate}}", Label: "Hired date", Group: GroupEmployee, Path: "employee.hiredDate", Example: "2023-04-01"},
	{Key: "{{department.name}}", Label: "Department name", Group: GroupDepartment, Path: "department.name", Example: "Инженерчлэл"},
	{Key: "{{position.title}}", Label: "Position title", Group: GroupPosition, Path: "position.title", Example: "Ахлах инженер"},
	{Key: "{{company.name}}", Label: "Company name", Group: GroupCompany, Path: "company.name", Example: "Ажил ХХК"},
	{Key: "{{company.address}}", Label: "Company address", Group: GroupCompany, Path: "company.address", Example: "Улаанбаатар"},
	{Key: "{{company.phone}}", Label: "Company phone", Group: GroupCompany, Path: "company.phone", Example: "7011-0011"},
	{Key: "{{date.today}}", Label: "Today's date", Group: GroupSystem, Path: "system.date", Example: "2025-10-24"},
	{Key: "{{system.date}}", Label: "Current date", Group: GroupSystem, Path: "system.date", Example: "2025-10-24"},
	{Key: "{{system.documentNo}}", Label: "Document number", Group: GroupSystem, Path: "system.documentNo", Example: "HR-2025-0042"},
}

// FieldsByGroup returns the dictionary grouped for editor listings.
func FieldsByGroup() map[FieldGroup][]Field {
	out := make(map[FieldGroup][]Field)
	for _, f := range Fields {
		out[f.Group] = append(out[f.Group], f)
	}
	return out
}
