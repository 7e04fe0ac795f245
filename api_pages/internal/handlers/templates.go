package handlers

// PageTemplate is a built-in page scaffold fed into the generation prompt
// as a structural starting point.
type PageTemplate struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Type         string `json:"type"`
	HTMLTemplate string `json:"html_template"`
	CSSTemplate  string `json:"css_template,omitempty"`
}

var builtinTemplates = []PageTemplate{
	{
		ID:          "default-landing",
		Name:        "Default Landing Page",
		Description: "A clean, modern landing page template with hero section, features, and CTA.",
		Type:        "landing",
		HTMLTemplate: `<div class='hero'>
  <h1>{{business_name}}</h1>
  <p>{{business_description}}</p>
  <a href='#' class='cta-button'>{{call_to_action}}</a>
</div>`,
		CSSTemplate: `body { font-family: 'Arial', sans-serif; }
.hero { text-align: center; padding: 4rem 2rem; }
.cta-button { display: inline-block; padding: 12px 24px; background-color: #0066cc; color: white; text-decoration: none; border-radius: 4px; }`,
	},
	{
		ID:          "default-product",
		Name:        "Default Product Page",
		Description: "A product page template with image gallery, description, and purchase options.",
		Type:        "product",
		HTMLTemplate: `<div class='product'>
  <div class='product-image'>
    <img src='{{image_url}}' alt='{{product_name}}'>
  </div>
  <div class='product-info'>
    <h1>{{product_name}}</h1>
    <p class='price'>${{price}}</p>
    <p>{{product_description}}</p>
    <button class='buy-button'>{{call_to_action}}</button>
  </div>
</div>`,
		CSSTemplate: `.product { display: flex; max-width: 1200px; margin: 0 auto; padding: 2rem; }
.product-image { flex: 1; }
.product-image img { max-width: 100%; }
.product-info { flex: 1; padding-left: 2rem; }
.price { font-size: 1.5rem; font-weight: bold; color: #0066cc; }
.buy-button { padding: 12px 24px; background-color: #0066cc; color: white; border: none; border-radius: 4px; cursor: pointer; }`,
	},
}

// TemplateByID returns the built-in template with the given ID
func TemplateByID(id string) (PageTemplate, bool) {
	for _, tpl := range builtinTemplates {
		if tpl.ID == id {
			return tpl, true
		}
	}
	return PageTemplate{}, false
}
